package service

import (
	"context"
	"errors"
	"log"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
)

// JudgeService manages the judge assignment lifecycle:
// Unassigned -> Assigned -> (Removed | retained permanently once scores exist).
type JudgeService struct {
	judgingRepo repository.JudgingRepository
	userRepo    repository.UserRepository
	contestRepo repository.ContestRepository
	events      EventEmitter
}

func NewJudgeService(
	judgingRepo repository.JudgingRepository,
	userRepo repository.UserRepository,
	contestRepo repository.ContestRepository,
	events EventEmitter,
) *JudgeService {
	return &JudgeService{
		judgingRepo: judgingRepo,
		userRepo:    userRepo,
		contestRepo: contestRepo,
		events:      events,
	}
}

// AssignJudge creates the assignment row and the JUDGE role row as one atomic
// unit. Duplicate assignment yields a conflict, a missing target user yields
// not-found; neither is fatal.
func (s *JudgeService) AssignJudge(ctx context.Context, actorID, contestID, judgeID string) (*model.JudgingAssignment, error) {
	if judgeID == "" {
		return nil, common.Errorf("judge_id is required: %w", common.ErrBadRequest)
	}

	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}
	judge, err := s.userRepo.FindByID(ctx, judgeID)
	if err != nil {
		return nil, common.Errorf("judge user not found: %w", err)
	}

	if _, err := s.judgingRepo.FindAssignment(ctx, judgeID, contestID); err == nil {
		return nil, common.Errorf("judge is already assigned to this contest: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to check existing assignment: %w", err)
	}

	assignment := &model.JudgingAssignment{
		ID:           uuid.NewString(),
		JudgeID:      judge.ID,
		ContestID:    contestID,
		AssignedByID: &actorID,
	}
	// Concurrent duplicate attempts resolve at the store: the unique key
	// rejects the second insert and the repo reports it as a conflict.
	if err := s.judgingRepo.AssignJudge(ctx, assignment); err != nil {
		return nil, err
	}

	log.Printf("Judge %s assigned to contest %s by %s", judgeID, contestID, actorID)
	s.events.Emit(ctx, model.EventJudgeAssigned, judgeID, contestID, map[string]string{
		"assignment_id": assignment.ID,
		"assigned_by":   actorID,
	})
	return assignment, nil
}

// RemoveJudge deletes the assignment and the JUDGE role row atomically.
// Removal is refused while any score by the judge exists within the contest:
// once a judge has scored, the assignment is permanent so score provenance is
// preserved.
func (s *JudgeService) RemoveJudge(ctx context.Context, actorID, contestID, judgeID string) error {
	if _, err := s.judgingRepo.FindAssignment(ctx, judgeID, contestID); err != nil {
		return common.Errorf("assignment not found: %w", err)
	}

	scoreCount, err := s.judgingRepo.CountScoresByJudgeAndContest(ctx, judgeID, contestID)
	if err != nil {
		return common.Errorf("failed to count judge scores: %w", err)
	}
	if scoreCount > 0 {
		return common.Errorf("judge has recorded scores in this contest and cannot be removed: %w", common.ErrConflict)
	}

	if err := s.judgingRepo.RemoveJudge(ctx, judgeID, contestID); err != nil {
		return err
	}

	log.Printf("Judge %s removed from contest %s by %s", judgeID, contestID, actorID)
	s.events.Emit(ctx, model.EventJudgeRemoved, judgeID, contestID, map[string]string{
		"removed_by": actorID,
	})
	return nil
}

func (s *JudgeService) ListJudges(ctx context.Context, contestID string) ([]model.JudgingAssignment, error) {
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}
	return s.judgingRepo.ListAssignmentsByContest(ctx, contestID)
}
