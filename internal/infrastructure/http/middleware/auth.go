package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// TokenAuthenticator resolves a bearer token to an identity.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// Auth is HTTP middleware for bearer token authentication.
type Auth struct {
	authenticator TokenAuthenticator
}

// NewAuth creates a new auth middleware.
func NewAuth(authenticator TokenAuthenticator) *Auth {
	return &Auth{
		authenticator: authenticator,
	}
}

// Validate is a Chi middleware that authenticates "Authorization: Bearer <token>"
// and stores the caller's identity in the request context.
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		identity, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				slog.WarnContext(r.Context(), "authentication failed: invalid or expired token",
					"path", r.URL.Path,
					"method", r.Method,
					"reason", err.Error())
			} else {
				slog.ErrorContext(r.Context(), "authentication failed: unexpected error",
					"path", r.URL.Path,
					"method", r.Method,
					"error", err)
			}
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		slog.DebugContext(r.Context(), "authentication successful",
			"path", r.URL.Path,
			"method", r.Method,
			"user_id", identity.UserID,
			"role", identity.Role)

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}
