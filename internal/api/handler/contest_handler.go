package handler

import (
	"encoding/json"
	"net/http"

	"concursos_backend/internal/api/middleware"
	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/app/service"
	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
	resolver       *rbac.Resolver
}

func NewContestHandler(cs *service.ContestService, resolver *rbac.Resolver) *ContestHandler {
	return &ContestHandler{contestService: cs, resolver: resolver}
}

// RegisterRoutes mounts the contest surface under /contests, including the
// per-contest subtrees owned by the other handlers.
func (h *ContestHandler) RegisterRoutes(
	r chi.Router,
	judges *JudgeHandler,
	participants *ParticipantHandler,
	submissions *SubmissionHandler,
	scoring *ScoringHandler,
) {
	r.Get("/", h.listContests) // GET /api/v1/contests

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createContest) // POST /api/v1/contests
	})

	r.Route("/{contestID}", func(cr chi.Router) {
		cr.Get("/", h.getContest)

		cr.With(middleware.Authenticator).Get("/permissions", h.myPermissions)

		cr.Group(func(manage chi.Router) {
			manage.Use(middleware.Authenticator)
			manage.Use(middleware.RequireContestPermission(h.resolver, rbac.PermManageContest))
			manage.Put("/", h.updateContest)
		})

		cr.Route("/categories", h.registerCategoryRoutes)
		cr.Route("/judges", judges.RegisterRoutes)
		cr.Route("/participants", participants.RegisterRoutes)
		cr.Route("/submissions", func(sr chi.Router) {
			submissions.RegisterRoutes(sr, scoring)
		})
		cr.Route("/criteria", scoring.RegisterCriteriaRoutes)
		cr.Route("/results", scoring.RegisterResultRoutes)
	})
}

type createContestRequest struct {
	CompanyID string `json:"company_id"`
	service.CreateContestRequest
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req createContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.CompanyID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	contest, err := h.contestService.CreateContest(r.Context(), userID, req.CompanyID, req.CreateContestRequest)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) updateContest(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	var req service.UpdateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.UpdateContest(r.Context(), contestID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.GetContest(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	status := model.ContestStatus(r.URL.Query().Get("status"))
	companyID := r.URL.Query().Get("companyId")

	contests, total, err := h.contestService.ListContests(r.Context(), page, pageSize, status, companyID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedResponse{
		Items:    contests,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// myPermissions reports the caller's capability flags on the contest.
func (h *ContestHandler) myPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	set, err := h.resolver.Resolve(r.Context(), userID, chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, set.Flags())
}

func (h *ContestHandler) registerCategoryRoutes(r chi.Router) {
	r.Get("/", h.listCategories) // Public: category list is part of the contest page

	r.Group(func(manage chi.Router) {
		manage.Use(middleware.Authenticator)
		manage.Use(middleware.RequireContestPermission(h.resolver, rbac.PermManageCategories))
		manage.Post("/", h.createCategory)
		manage.Put("/{categoryID}", h.updateCategory)
		manage.Delete("/{categoryID}", h.deleteCategory)
	})
}

func (h *ContestHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	category, err := h.contestService.CreateCategory(r.Context(), chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *ContestHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	category, err := h.contestService.UpdateCategory(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "categoryID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *ContestHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.contestService.DeleteCategory(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "categoryID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContestHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.contestService.ListCategories(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}
