package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ContestService struct {
	contestRepo repository.ContestRepository
	companyRepo repository.CompanyRepository
	roleRepo    repository.RoleRepository
	db          *sql.DB // For transactions
}

func NewContestService(
	contestRepo repository.ContestRepository,
	companyRepo repository.CompanyRepository,
	roleRepo repository.RoleRepository,
	db *sql.DB,
) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		companyRepo: companyRepo,
		roleRepo:    roleRepo,
		db:          db,
	}
}

type CreateContestRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	RegistrationStart time.Time `json:"registration_start"`
	RegistrationEnd   time.Time `json:"registration_end"`
	MaxParticipants   *int      `json:"max_participants,omitempty"`
}

type UpdateContestRequest struct {
	Name              *string              `json:"name,omitempty"`
	Description       *string              `json:"description,omitempty"`
	Status            *model.ContestStatus `json:"status,omitempty"`
	RegistrationStart *time.Time           `json:"registration_start,omitempty"`
	RegistrationEnd   *time.Time           `json:"registration_end,omitempty"`
	MaxParticipants   *int                 `json:"max_participants,omitempty"`
}

// CreateContest creates the contest and grants the creator the contest
// administrator role in one transaction.
func (s *ContestService) CreateContest(ctx context.Context, userID, companyID string, req CreateContestRequest) (*model.Contest, error) {
	if req.Name == "" || req.RegistrationStart.IsZero() || req.RegistrationEnd.IsZero() {
		return nil, common.Errorf("missing required fields for contest creation: %w", common.ErrBadRequest)
	}
	if !req.RegistrationEnd.After(req.RegistrationStart) {
		return nil, common.Errorf("registration window must end after it starts: %w", common.ErrValidation)
	}
	if req.MaxParticipants != nil && *req.MaxParticipants <= 0 {
		return nil, common.Errorf("max participants must be positive when set: %w", common.ErrValidation)
	}

	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, common.Errorf("company not found: %w", err)
	}

	contest := &model.Contest{
		ID:                uuid.NewString(),
		CompanyID:         companyID,
		Name:              req.Name,
		Slug:              slug.Make(req.Name),
		Description:       req.Description,
		Status:            model.ContestStatusDraft,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		MaxParticipants:   req.MaxParticipants,
		CreatedByID:       &userID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.contestRepo.CreateContest(ctx, tx, contest); err != nil {
		return nil, common.Errorf("failed to create contest: %w", err)
	}

	adminRole := &model.ContestUserRole{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContestID: contest.ID,
		Role:      model.ContestRoleAdministrator,
	}
	if err := s.roleRepo.Grant(ctx, tx, adminRole); err != nil {
		return nil, common.Errorf("failed to grant administrator role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Contest %s created by user %s", contest.ID, userID)
	return contest, nil
}

func (s *ContestService) UpdateContest(ctx context.Context, contestID string, req UpdateContestRequest) (*model.Contest, error) {
	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contest.Name = *req.Name
		contest.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		contest.Description = *req.Description
	}
	if req.Status != nil {
		contest.Status = *req.Status
	}
	if req.RegistrationStart != nil {
		contest.RegistrationStart = *req.RegistrationStart
	}
	if req.RegistrationEnd != nil {
		contest.RegistrationEnd = *req.RegistrationEnd
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants <= 0 {
			return nil, common.Errorf("max participants must be positive when set: %w", common.ErrValidation)
		}
		contest.MaxParticipants = req.MaxParticipants
	}
	if !contest.RegistrationEnd.After(contest.RegistrationStart) {
		return nil, common.Errorf("registration window must end after it starts: %w", common.ErrValidation)
	}

	if err := s.contestRepo.UpdateContest(ctx, contest); err != nil {
		return nil, common.Errorf("failed to update contest: %w", err)
	}
	return contest, nil
}

func (s *ContestService) GetContestBySlug(ctx context.Context, contestSlug string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindContestBySlug(ctx, contestSlug)
	if err != nil {
		return nil, err
	}

	categories, err := s.contestRepo.ListCategoriesByContest(ctx, contest.ID)
	if err != nil {
		log.Printf("WARN: Failed to fetch categories for contest %s: %v", contest.ID, err)
		// Continue, but categories will be missing
	}
	contest.Categories = categories
	return contest, nil
}

func (s *ContestService) GetContestByID(ctx context.Context, contestID string) (*model.Contest, error) {
	return s.contestRepo.FindContestByID(ctx, contestID)
}

// GetContest looks a contest up by ID, falling back to slug so the public
// detail route accepts either form.
func (s *ContestService) GetContest(ctx context.Context, idOrSlug string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindContestByID(ctx, idOrSlug)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		contest, err = s.contestRepo.FindContestBySlug(ctx, idOrSlug)
		if err != nil {
			return nil, err
		}
	}

	categories, err := s.contestRepo.ListCategoriesByContest(ctx, contest.ID)
	if err != nil {
		log.Printf("WARN: Failed to fetch categories for contest %s: %v", contest.ID, err)
	} else {
		contest.Categories = categories
	}
	return contest, nil
}

func (s *ContestService) ListContests(ctx context.Context, page, pageSize int, status model.ContestStatus, companyID string) ([]model.Contest, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.contestRepo.ListContests(ctx, limit, offset, status, companyID)
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (s *ContestService) CreateCategory(ctx context.Context, contestID string, req CategoryRequest) (*model.ContestCategory, error) {
	if req.Name == "" {
		return nil, common.Errorf("category name is required: %w", common.ErrBadRequest)
	}
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}

	category := &model.ContestCategory{
		ID:          uuid.NewString(),
		ContestID:   contestID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.contestRepo.CreateCategory(ctx, category); err != nil {
		return nil, common.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *ContestService) UpdateCategory(ctx context.Context, contestID, categoryID string, req CategoryRequest) (*model.ContestCategory, error) {
	category, err := s.contestRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.ContestID != contestID {
		// Path contest and category contest must agree
		return nil, common.Errorf("category does not belong to contest: %w", common.ErrNotFound)
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	category.Description = req.Description
	category.SortOrder = req.SortOrder

	if err := s.contestRepo.UpdateCategory(ctx, category); err != nil {
		return nil, common.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *ContestService) DeleteCategory(ctx context.Context, contestID, categoryID string) error {
	category, err := s.contestRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.ContestID != contestID {
		return common.Errorf("category does not belong to contest: %w", common.ErrNotFound)
	}
	return s.contestRepo.DeleteCategory(ctx, categoryID)
}

func (s *ContestService) ListCategories(ctx context.Context, contestID string) ([]model.ContestCategory, error) {
	return s.contestRepo.ListCategoriesByContest(ctx, contestID)
}
