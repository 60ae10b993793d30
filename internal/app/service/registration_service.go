package service

import (
	"context"
	"errors"
	"log"
	"time"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
)

// RegistrationService decides whether a participation request is admitted and
// records admitted registrations.
type RegistrationService struct {
	participationRepo repository.ParticipationRepository
	contestRepo       repository.ContestRepository
	events            EventEmitter
	now               func() time.Time
}

func NewRegistrationService(
	participationRepo repository.ParticipationRepository,
	contestRepo repository.ContestRepository,
	events EventEmitter,
) *RegistrationService {
	return &RegistrationService{
		participationRepo: participationRepo,
		contestRepo:       contestRepo,
		events:            events,
		now:               time.Now,
	}
}

// checkAdmission applies the registration preconditions that do not depend on
// the caller: open status, now within [registrationStart, registrationEnd),
// and participant count below the cap when one is set.
func checkAdmission(contest *model.Contest, participantCount int, now time.Time) error {
	if contest.Status != model.ContestStatusRegistrationOpen {
		return common.Errorf("contest is not open for registration: %w", common.ErrConflict)
	}
	if now.Before(contest.RegistrationStart) || !now.Before(contest.RegistrationEnd) {
		return common.Errorf("registration window is closed: %w", common.ErrConflict)
	}
	if contest.MaxParticipants != nil && participantCount >= *contest.MaxParticipants {
		return common.Errorf("contest participant cap reached: %w", common.ErrConflict)
	}
	return nil
}

// Register admits a self-registration. On admission it creates the
// participation row (Pending) and the PARTICIPANT role row atomically; any
// unmet precondition rejects the request with no partial state.
func (s *RegistrationService) Register(ctx context.Context, userID, contestID string) (*model.ContestParticipation, error) {
	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}

	count, err := s.participationRepo.CountByContest(ctx, contestID)
	if err != nil {
		return nil, common.Errorf("failed to count participants: %w", err)
	}
	if err := checkAdmission(contest, count, s.now()); err != nil {
		return nil, err
	}

	if _, err := s.participationRepo.FindByUserAndContest(ctx, userID, contestID); err == nil {
		return nil, common.Errorf("user is already registered for this contest: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to check existing participation: %w", err)
	}

	participation := &model.ContestParticipation{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContestID: contestID,
		Status:    model.ParticipationStatusPending,
	}
	// Racing registrations resolve at the store's unique constraint; the repo
	// maps the rejected insert to a conflict, not a fatal error.
	if err := s.participationRepo.CreateWithRole(ctx, participation); err != nil {
		return nil, err
	}

	log.Printf("User %s registered for contest %s", userID, contestID)
	s.events.Emit(ctx, model.EventParticipantRegistered, userID, contestID, map[string]string{
		"participation_id": participation.ID,
	})
	return participation, nil
}

type ReviewParticipationRequest struct {
	Status model.ParticipationStatus `json:"status"`
}

// ReviewParticipation updates a participation status (contest staff only;
// gated by the caller).
func (s *RegistrationService) ReviewParticipation(ctx context.Context, contestID, userID string, req ReviewParticipationRequest) (*model.ContestParticipation, error) {
	switch req.Status {
	case model.ParticipationStatusApproved, model.ParticipationStatusRejected, model.ParticipationStatusWithdrawn:
	default:
		return nil, common.Errorf("invalid participation status %q: %w", req.Status, common.ErrValidation)
	}

	participation, err := s.participationRepo.FindByUserAndContest(ctx, userID, contestID)
	if err != nil {
		return nil, common.Errorf("participation not found: %w", err)
	}

	if err := s.participationRepo.UpdateStatus(ctx, participation.ID, req.Status); err != nil {
		return nil, common.Errorf("failed to update participation status: %w", err)
	}
	participation.Status = req.Status

	s.events.Emit(ctx, model.EventParticipantReviewed, userID, contestID, map[string]string{
		"participation_id": participation.ID,
		"status":           string(req.Status),
	})
	return participation, nil
}

func (s *RegistrationService) ListParticipants(ctx context.Context, contestID string, page, pageSize int) ([]model.ContestParticipation, int, error) {
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, 0, common.Errorf("contest not found: %w", err)
	}
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.participationRepo.ListByContest(ctx, contestID, limit, offset)
}
