package service

import (
	"context"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CompanyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

type CreateCompanyRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ContactEmail string  `json:"contact_email"`
	LogoURL      *string `json:"logo_url,omitempty"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
}

func (s *CompanyService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*model.Company, error) {
	if req.Name == "" || req.ContactEmail == "" {
		return nil, common.Errorf("missing required fields for company creation: %w", common.ErrBadRequest)
	}

	company := &model.Company{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Slug:         slug.Make(req.Name),
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		LogoURL:      req.LogoURL,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, common.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, companyID string, req UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
		company.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.ContactEmail != nil {
		company.ContactEmail = *req.ContactEmail
	}
	if req.LogoURL != nil {
		company.LogoURL = req.LogoURL
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, common.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, companyID string) error {
	return s.companyRepo.Delete(ctx, companyID)
}

func (s *CompanyService) GetCompanyBySlug(ctx context.Context, companySlug string) (*model.Company, error) {
	return s.companyRepo.FindBySlug(ctx, companySlug)
}

func (s *CompanyService) ListCompanies(ctx context.Context, page, pageSize int) ([]model.Company, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.companyRepo.List(ctx, limit, offset)
}
