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

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	resolver          *rbac.Resolver
}

func NewSubmissionHandler(ss *service.SubmissionService, resolver *rbac.Resolver) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, resolver: resolver}
}

// RegisterRoutes mounts submission routes under /contests/{contestID}/submissions,
// including the per-submission scoring subtree.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router, scoring *ScoringHandler) {
	r.Use(middleware.Authenticator)

	r.With(middleware.RequireContestPermission(h.resolver, rbac.PermParticipate)).
		Post("/", h.createSubmission)
	r.Get("/", h.listSubmissions)

	r.Route("/{submissionID}", func(sr chi.Router) {
		sr.Get("/", h.getSubmission)
		sr.Post("/media", h.attachMedia)

		sr.Group(func(manage chi.Router) {
			manage.Use(middleware.RequireContestPermission(h.resolver, rbac.PermManageSubmissions))
			manage.Post("/disqualify", h.disqualifySubmission)
			manage.Delete("/", h.deleteSubmission)
		})

		sr.Route("/scores", scoring.RegisterScoreRoutes)
	})
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), userID, chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) attachMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var reqs []service.AttachMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if len(reqs) == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "At least one media item is required")
		return
	}

	media, err := h.submissionService.AttachMedia(r.Context(), userID, chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"), reqs)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, media)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), userID, chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	page, pageSize := paginationParams(r)

	submissions, total, err := h.submissionService.ListSubmissions(r.Context(), userID, chi.URLParam(r, "contestID"), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedResponse{
		Items:    submissions,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *SubmissionHandler) disqualifySubmission(w http.ResponseWriter, r *http.Request) {
	err := h.submissionService.DisqualifySubmission(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "disqualified"})
}

func (h *SubmissionHandler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	err := h.submissionService.DeleteSubmission(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
