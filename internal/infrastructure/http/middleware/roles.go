package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// RequireRole rejects callers whose role is not listed with 403.
// It must run after Auth.Validate; a request without an identity gets 401.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "authentication required")
				return
			}
			if !slices.Contains(roles, identity.Role) {
				slog.WarnContext(r.Context(), "role not allowed",
					"path", r.URL.Path,
					"user_id", identity.UserID,
					"role", identity.Role)
				response.Forbidden(w, "role "+string(identity.Role)+" is not allowed to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
