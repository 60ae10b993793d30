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

type JudgeHandler struct {
	judgeService *service.JudgeService
	resolver     *rbac.Resolver
}

func NewJudgeHandler(js *service.JudgeService, resolver *rbac.Resolver) *JudgeHandler {
	return &JudgeHandler{judgeService: js, resolver: resolver}
}

// RegisterRoutes mounts judge assignment routes under /contests/{contestID}/judges.
func (h *JudgeHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.RequireContestPermission(h.resolver, rbac.PermManageContest))

	r.Get("/", h.listJudges)
	r.Post("/", h.assignJudge)
	r.Delete("/{judgeID}", h.removeJudge)
}

type assignJudgeRequest struct {
	JudgeID string `json:"judge_id"`
}

func (h *JudgeHandler) assignJudge(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req assignJudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.JudgeID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "judge_id is required")
		return
	}

	assignment, err := h.judgeService.AssignJudge(r.Context(), actorID, chi.URLParam(r, "contestID"), req.JudgeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, assignment)
}

func (h *JudgeHandler) removeJudge(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	err := h.judgeService.RemoveJudge(r.Context(), actorID, chi.URLParam(r, "contestID"), chi.URLParam(r, "judgeID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JudgeHandler) listJudges(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.judgeService.ListJudges(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignments)
}
