package handler

import (
	"encoding/json"
	"net/http"

	"concursos_backend/internal/api/middleware"
	"concursos_backend/internal/app/service"
	"concursos_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type CompanyHandler struct {
	companyService *service.CompanyService
}

func NewCompanyHandler(cs *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: cs}
}

func (h *CompanyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCompanies)              // GET /api/v1/companies
	r.Get("/{companySlug}", h.getCompany)    // GET /api/v1/companies/asoganaderos

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createCompany)
		adminRouter.Put("/{companyID}", h.updateCompany)
		adminRouter.Delete("/{companyID}", h.deleteCompany)
	})
}

func (h *CompanyHandler) createCompany(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	company, err := h.companyService.CreateCompany(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) updateCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req service.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	company, err := h.companyService.UpdateCompany(r.Context(), companyID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.companyService.DeleteCompany(r.Context(), chi.URLParam(r, "companyID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanyHandler) getCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.GetCompanyBySlug(r.Context(), chi.URLParam(r, "companySlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) listCompanies(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	companies, total, err := h.companyService.ListCompanies(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedResponse{
		Items:    companies,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
