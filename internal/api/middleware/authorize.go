package middleware

import (
	"net/http"

	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

// RequireContestPermission gates a route on a named contest permission.
// Authentication is checked first, before any permission lookup; the
// permission is re-resolved on every request, with no caching.
func RequireContestPermission(resolver *rbac.Resolver, perm rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
				return
			}
			contestID := chi.URLParam(r, "contestID")
			if contestID == "" {
				common.RespondWithError(w, http.StatusBadRequest, "Missing contest ID in path")
				return
			}

			if err := resolver.Require(r.Context(), userID, contestID, perm); err != nil {
				common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
