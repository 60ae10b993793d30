package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo    repository.SubmissionRepository
	participationRepo repository.ParticipationRepository
	contestRepo       repository.ContestRepository
	resolver          *rbac.Resolver
	db                *sql.DB // For transactions
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	participationRepo repository.ParticipationRepository,
	contestRepo repository.ContestRepository,
	resolver *rbac.Resolver,
	db *sql.DB,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo:    submissionRepo,
		participationRepo: participationRepo,
		contestRepo:       contestRepo,
		resolver:          resolver,
		db:                db,
	}
}

type CreateSubmissionRequest struct {
	CategoryID  string               `json:"category_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Media       []AttachMediaRequest `json:"media,omitempty"`
}

type AttachMediaRequest struct {
	URL     string          `json:"url"`
	Kind    model.MediaKind `json:"kind"`
	Caption *string         `json:"caption,omitempty"`
}

// CreateSubmission records an entry for the caller's approved participation.
// The submission and its media rows are inserted in one transaction.
func (s *SubmissionService) CreateSubmission(ctx context.Context, userID, contestID string, req CreateSubmissionRequest) (*model.ContestSubmission, error) {
	if req.Title == "" || req.CategoryID == "" {
		return nil, common.Errorf("missing required fields for submission creation: %w", common.ErrBadRequest)
	}

	participation, err := s.participationRepo.FindByUserAndContest(ctx, userID, contestID)
	if err != nil {
		return nil, common.Errorf("caller is not registered for this contest: %w", common.ErrForbidden)
	}
	if participation.Status != model.ParticipationStatusApproved {
		return nil, common.Errorf("participation is not approved: %w", common.ErrForbidden)
	}

	category, err := s.contestRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, common.Errorf("category not found: %w", err)
	}
	if category.ContestID != contestID {
		return nil, common.Errorf("category does not belong to contest: %w", common.ErrValidation)
	}

	submission := &model.ContestSubmission{
		ID:              uuid.NewString(),
		ParticipationID: participation.ID,
		CategoryID:      category.ID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          model.SubmissionStatusSubmitted,
	}

	media := make([]model.SubmissionMedia, 0, len(req.Media))
	for i, m := range req.Media {
		if m.URL == "" {
			return nil, common.Errorf("media url is required: %w", common.ErrValidation)
		}
		media = append(media, model.SubmissionMedia{
			ID:           uuid.NewString(),
			SubmissionID: submission.ID,
			URL:          m.URL,
			Kind:         m.Kind,
			Caption:      m.Caption,
			SortOrder:    i + 1,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.submissionRepo.CreateSubmission(ctx, tx, submission); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}
	if err := s.submissionRepo.AddMedia(ctx, tx, media); err != nil {
		return nil, common.Errorf("failed to attach media: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	submission.Media = media
	log.Printf("Submission %s created under participation %s", submission.ID, participation.ID)
	return submission, nil
}

// AttachMedia adds media rows to an existing submission. Allowed for the
// submission owner and for holders of manage_submissions.
func (s *SubmissionService) AttachMedia(ctx context.Context, userID, contestID, submissionID string, reqs []AttachMediaRequest) ([]model.SubmissionMedia, error) {
	if len(reqs) == 0 {
		return nil, common.Errorf("no media provided: %w", common.ErrBadRequest)
	}

	submission, err := s.findContestSubmission(ctx, contestID, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrManager(ctx, userID, contestID, submission); err != nil {
		return nil, err
	}

	existing, err := s.submissionRepo.ListMediaBySubmission(ctx, submissionID)
	if err != nil {
		return nil, common.Errorf("failed to list existing media: %w", err)
	}

	media := make([]model.SubmissionMedia, 0, len(reqs))
	for i, m := range reqs {
		if m.URL == "" {
			return nil, common.Errorf("media url is required: %w", common.ErrValidation)
		}
		media = append(media, model.SubmissionMedia{
			ID:           uuid.NewString(),
			SubmissionID: submissionID,
			URL:          m.URL,
			Kind:         m.Kind,
			Caption:      m.Caption,
			SortOrder:    len(existing) + i + 1,
		})
	}

	if err := s.submissionRepo.AddMedia(ctx, nil, media); err != nil {
		return nil, common.Errorf("failed to attach media: %w", err)
	}
	return media, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, userID, contestID, submissionID string) (*model.ContestSubmission, error) {
	submission, err := s.findContestSubmission(ctx, contestID, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrManager(ctx, userID, contestID, submission); err != nil {
		return nil, err
	}

	media, err := s.submissionRepo.ListMediaBySubmission(ctx, submissionID)
	if err != nil {
		log.Printf("WARN: Failed to fetch media for submission %s: %v", submissionID, err)
	}
	submission.Media = media
	return submission, nil
}

// ListSubmissions returns the whole contest's submissions for holders of
// manage_submissions or judges, and only the caller's own otherwise.
func (s *SubmissionService) ListSubmissions(ctx context.Context, userID, contestID string, page, pageSize int) ([]model.ContestSubmission, int, error) {
	set, err := s.resolver.Resolve(ctx, userID, contestID)
	if err != nil {
		return nil, 0, err
	}
	if set.Has(rbac.PermManageSubmissions) || set.Has(rbac.PermJudge) {
		limit := pageSize
		offset := (page - 1) * pageSize
		if offset < 0 {
			offset = 0
		}
		return s.submissionRepo.ListSubmissionsByContest(ctx, contestID, limit, offset)
	}

	participation, err := s.participationRepo.FindByUserAndContest(ctx, userID, contestID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []model.ContestSubmission{}, 0, nil
		}
		return nil, 0, common.Errorf("failed to find participation: %w", err)
	}
	submissions, err := s.submissionRepo.ListSubmissionsByParticipation(ctx, participation.ID)
	if err != nil {
		return nil, 0, err
	}
	return submissions, len(submissions), nil
}

// DisqualifySubmission marks a submission Disqualified (manage_submissions,
// gated by the caller).
func (s *SubmissionService) DisqualifySubmission(ctx context.Context, contestID, submissionID string) error {
	if _, err := s.findContestSubmission(ctx, contestID, submissionID); err != nil {
		return err
	}
	return s.submissionRepo.UpdateSubmissionStatus(ctx, submissionID, model.SubmissionStatusDisqualified)
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, contestID, submissionID string) error {
	if _, err := s.findContestSubmission(ctx, contestID, submissionID); err != nil {
		return err
	}
	return s.submissionRepo.DeleteSubmission(ctx, submissionID)
}

func (s *SubmissionService) findContestSubmission(ctx context.Context, contestID, submissionID string) (*model.ContestSubmission, error) {
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
	return submission, nil
}

func (s *SubmissionService) requireOwnerOrManager(ctx context.Context, userID, contestID string, submission *model.ContestSubmission) error {
	if submission.OwnerUserID != nil && *submission.OwnerUserID == userID {
		return nil
	}
	return s.resolver.Require(ctx, userID, contestID, rbac.PermManageSubmissions)
}
