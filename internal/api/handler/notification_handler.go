package handler

import (
	"net/http"

	"concursos_backend/internal/api/middleware"
	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// RegisterRoutes mounts notification routes under /me/notifications.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listMyNotifications)
}

func (h *NotificationHandler) listMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	page, pageSize := paginationParams(r)

	notifications, err := h.notificationRepo.ListByRecipient(r.Context(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}
