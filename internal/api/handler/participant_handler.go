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

type ParticipantHandler struct {
	registrationService *service.RegistrationService
	resolver            *rbac.Resolver
}

func NewParticipantHandler(rs *service.RegistrationService, resolver *rbac.Resolver) *ParticipantHandler {
	return &ParticipantHandler{registrationService: rs, resolver: resolver}
}

// RegisterRoutes mounts registration routes under /contests/{contestID}/participants.
func (h *ParticipantHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Post("/", h.register)
	r.Get("/", h.listParticipants)

	r.With(middleware.RequireContestPermission(h.resolver, rbac.PermManageUsers)).
		Put("/{userID}", h.reviewParticipation)
}

func (h *ParticipantHandler) register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	participation, err := h.registrationService.Register(r.Context(), userID, chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, participation)
}

func (h *ParticipantHandler) reviewParticipation(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewParticipationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	participation, err := h.registrationService.ReviewParticipation(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "userID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, participation)
}

func (h *ParticipantHandler) listParticipants(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	participants, total, err := h.registrationService.ListParticipants(r.Context(), chi.URLParam(r, "contestID"), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedResponse{
		Items:    participants,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
