package handler

import (
	"encoding/json"
	"net/http"

	"concursos_backend/internal/api/middleware"
	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/app/service"
	"concursos_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type ScoringHandler struct {
	scoringService *service.ScoringService
	resolver       *rbac.Resolver
}

func NewScoringHandler(ss *service.ScoringService, resolver *rbac.Resolver) *ScoringHandler {
	return &ScoringHandler{scoringService: ss, resolver: resolver}
}

// RegisterCriteriaRoutes mounts criteria routes under /contests/{contestID}/criteria.
func (h *ScoringHandler) RegisterCriteriaRoutes(r chi.Router) {
	r.Get("/", h.listCriteria) // Public: criteria are part of the contest page

	r.Group(func(manage chi.Router) {
		manage.Use(middleware.Authenticator)
		manage.Use(middleware.RequireContestPermission(h.resolver, rbac.PermManageContest))
		manage.Post("/", h.createCriteria)
		manage.Put("/{criteriaID}", h.updateCriteria)
		manage.Delete("/{criteriaID}", h.deleteCriteria)
	})
}

// RegisterScoreRoutes mounts scoring routes under
// /contests/{contestID}/submissions/{submissionID}/scores. The submissions
// subtree already authenticates requests.
func (h *ScoringHandler) RegisterScoreRoutes(r chi.Router) {
	r.With(middleware.RequireContestPermission(h.resolver, rbac.PermJudge)).
		Post("/", h.recordScore)
	r.Get("/", h.listScores)
}

// RegisterResultRoutes mounts the public standings route under
// /contests/{contestID}/results.
func (h *ScoringHandler) RegisterResultRoutes(r chi.Router) {
	r.Get("/", h.getResults)
}

func (h *ScoringHandler) createCriteria(w http.ResponseWriter, r *http.Request) {
	var req service.CriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	criteria, err := h.scoringService.CreateCriteria(r.Context(), chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, criteria)
}

func (h *ScoringHandler) updateCriteria(w http.ResponseWriter, r *http.Request) {
	var req service.CriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	criteria, err := h.scoringService.UpdateCriteria(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "criteriaID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *ScoringHandler) deleteCriteria(w http.ResponseWriter, r *http.Request) {
	err := h.scoringService.DeleteCriteria(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "criteriaID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScoringHandler) listCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.scoringService.ListCriteria(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *ScoringHandler) recordScore(w http.ResponseWriter, r *http.Request) {
	judgeID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.RecordScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	score, err := h.scoringService.RecordScore(r.Context(), judgeID, chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, score)
}

func (h *ScoringHandler) listScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scoringService.ListScores(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scores)
}

func (h *ScoringHandler) getResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.scoringService.GetResults(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, results)
}
