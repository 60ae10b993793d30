package service

import (
	"context"
	"log"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
)

type ScoringService struct {
	judgingRepo       repository.JudgingRepository
	submissionRepo    repository.SubmissionRepository
	participationRepo repository.ParticipationRepository
	contestRepo       repository.ContestRepository
	events            EventEmitter
}

func NewScoringService(
	judgingRepo repository.JudgingRepository,
	submissionRepo repository.SubmissionRepository,
	participationRepo repository.ParticipationRepository,
	contestRepo repository.ContestRepository,
	events EventEmitter,
) *ScoringService {
	return &ScoringService{
		judgingRepo:       judgingRepo,
		submissionRepo:    submissionRepo,
		participationRepo: participationRepo,
		contestRepo:       contestRepo,
		events:            events,
	}
}

type CriteriaRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxScore    float64 `json:"max_score"`
	Weight      float64 `json:"weight"`
	SortOrder   int     `json:"sort_order"`
}

func (s *ScoringService) CreateCriteria(ctx context.Context, contestID string, req CriteriaRequest) (*model.JudgingCriteria, error) {
	if req.Name == "" {
		return nil, common.Errorf("criteria name is required: %w", common.ErrBadRequest)
	}
	if req.MaxScore <= 0 {
		return nil, common.Errorf("criteria max score must be positive: %w", common.ErrValidation)
	}
	if req.Weight <= 0 {
		return nil, common.Errorf("criteria weight must be positive: %w", common.ErrValidation)
	}
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}

	criteria := &model.JudgingCriteria{
		ID:          uuid.NewString(),
		ContestID:   contestID,
		Name:        req.Name,
		Description: req.Description,
		MaxScore:    req.MaxScore,
		Weight:      req.Weight,
		SortOrder:   req.SortOrder,
	}
	if err := s.judgingRepo.CreateCriteria(ctx, criteria); err != nil {
		return nil, common.Errorf("failed to create criteria: %w", err)
	}
	return criteria, nil
}

func (s *ScoringService) UpdateCriteria(ctx context.Context, contestID, criteriaID string, req CriteriaRequest) (*model.JudgingCriteria, error) {
	criteria, err := s.judgingRepo.FindCriteriaByID(ctx, criteriaID)
	if err != nil {
		return nil, err
	}
	if criteria.ContestID != contestID {
		return nil, common.Errorf("criteria does not belong to contest: %w", common.ErrNotFound)
	}
	if req.MaxScore <= 0 || req.Weight <= 0 {
		return nil, common.Errorf("criteria max score and weight must be positive: %w", common.ErrValidation)
	}

	if req.Name != "" {
		criteria.Name = req.Name
	}
	criteria.Description = req.Description
	criteria.MaxScore = req.MaxScore
	criteria.Weight = req.Weight
	criteria.SortOrder = req.SortOrder

	if err := s.judgingRepo.UpdateCriteria(ctx, criteria); err != nil {
		return nil, common.Errorf("failed to update criteria: %w", err)
	}
	return criteria, nil
}

func (s *ScoringService) DeleteCriteria(ctx context.Context, contestID, criteriaID string) error {
	criteria, err := s.judgingRepo.FindCriteriaByID(ctx, criteriaID)
	if err != nil {
		return err
	}
	if criteria.ContestID != contestID {
		return common.Errorf("criteria does not belong to contest: %w", common.ErrNotFound)
	}
	return s.judgingRepo.DeleteCriteria(ctx, criteriaID)
}

func (s *ScoringService) ListCriteria(ctx context.Context, contestID string) ([]model.JudgingCriteria, error) {
	return s.judgingRepo.ListCriteriaByContest(ctx, contestID)
}

type RecordScoreRequest struct {
	CriteriaID string  `json:"criteria_id"`
	Score      float64 `json:"score"`
	Comment    *string `json:"comment,omitempty"`
}

// RecordScore records one judge's score for one submission against one
// criteria. The judge must hold an active assignment on the contest; the
// criteria and the submission must both belong to the contest; the score must
// fall within [0, maxScore].
func (s *ScoringService) RecordScore(ctx context.Context, judgeID, contestID, submissionID string, req RecordScoreRequest) (*model.JudgingScore, error) {
	if req.CriteriaID == "" {
		return nil, common.Errorf("criteria_id is required: %w", common.ErrBadRequest)
	}

	if _, err := s.judgingRepo.FindAssignment(ctx, judgeID, contestID); err != nil {
		return nil, common.Errorf("caller holds no judging assignment on this contest: %w", common.ErrForbidden)
	}

	criteria, err := s.judgingRepo.FindCriteriaByID(ctx, req.CriteriaID)
	if err != nil {
		return nil, common.Errorf("criteria not found: %w", err)
	}
	if criteria.ContestID != contestID {
		return nil, common.Errorf("criteria does not belong to contest: %w", common.ErrValidation)
	}
	if req.Score < 0 || req.Score > criteria.MaxScore {
		return nil, common.Errorf("score must be within [0, %g]: %w", criteria.MaxScore, common.ErrValidation)
	}

	submission, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, common.Errorf("submission not found: %w", err)
	}
	participation, err := s.participationRepo.FindByID(ctx, submission.ParticipationID)
	if err != nil {
		return nil, common.Errorf("participation not found for submission: %w", err)
	}
	if participation.ContestID != contestID {
		return nil, common.Errorf("submission does not belong to contest: %w", common.ErrValidation)
	}
	if submission.Status == model.SubmissionStatusDisqualified {
		return nil, common.Errorf("submission is disqualified: %w", common.ErrConflict)
	}

	score := &model.JudgingScore{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		JudgeID:      judgeID,
		CriteriaID:   criteria.ID,
		Score:        req.Score,
		Comment:      req.Comment,
	}
	if err := s.judgingRepo.CreateScore(ctx, score); err != nil {
		return nil, err
	}

	log.Printf("Score recorded by judge %s for submission %s (criteria %s)", judgeID, submissionID, criteria.ID)
	s.events.Emit(ctx, model.EventScoreRecorded, participation.UserID, contestID, map[string]string{
		"submission_id": submissionID,
		"criteria_id":   criteria.ID,
	})
	return score, nil
}

func (s *ScoringService) ListScores(ctx context.Context, contestID, submissionID string) ([]model.JudgingScore, error) {
	submission, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	participation, err := s.participationRepo.FindByID(ctx, submission.ParticipationID)
	if err != nil {
		return nil, common.Errorf("participation not found for submission: %w", err)
	}
	if participation.ContestID != contestID {
		return nil, common.Errorf("submission does not belong to contest: %w", common.ErrNotFound)
	}
	return s.judgingRepo.ListScoresBySubmission(ctx, submissionID)
}

// GetResults computes the public weight-averaged standings. Results are
// public: no permission beyond view_results (held by everyone) applies.
func (s *ScoringService) GetResults(ctx context.Context, contestID string) ([]model.ContestResult, error) {
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}
	return s.judgingRepo.GetContestResults(ctx, contestID)
}
