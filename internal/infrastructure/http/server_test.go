package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/domain"
)

type staticAuthenticator struct {
	token    string
	identity domain.Identity
}

func (a staticAuthenticator) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	if token != a.token {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return a.identity, nil
}

func newTestServer(t *testing.T, cfg ServerConfig) http.Handler {
	t.Helper()

	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok, "identity must be set before the API handler runs")
		w.Header().Set("X-User", identity.UserID)
		w.WriteHeader(http.StatusOK)
	})
	authenticator := staticAuthenticator{
		token:    "good",
		identity: domain.Identity{UserID: "u-1", Role: domain.RoleCustomer},
	}
	return NewAPIServer(api, authenticator, cfg).Handler()
}

func TestAPIServer_Routing(t *testing.T) {
	h := newTestServer(t, ServerConfig{})

	t.Run("health needs no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("api rejects missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customer/tasks", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("api rejects unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customer/tasks", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("api passes identity through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customer/tasks", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1", w.Header().Get("X-User"))
	})
}

func TestAPIServer_MaxBodyBytes(t *testing.T) {
	h := newTestServer(t, ServerConfig{MaxBodyBytes: 16})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customer/tasks", strings.NewReader(strings.Repeat("x", 64)))
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestServerConfig_ApplyDefaults(t *testing.T) {
	t.Run("applies all defaults for zero config", func(t *testing.T) {
		cfg := ServerConfig{}
		cfg.applyDefaults()

		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
		assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
		assert.Equal(t, DefaultIdleTimeout, cfg.IdleTimeout)
		assert.Equal(t, DefaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
		assert.Equal(t, DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)
		assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.MaxBodyBytes)
		assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	})

	t.Run("preserves non-zero values", func(t *testing.T) {
		cfg := ServerConfig{
			Port:           "9000",
			MaxHeaderBytes: 2048,
			MaxBodyBytes:   4096,
			ServiceName:    "market-api",
		}
		cfg.applyDefaults()

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, 2048, cfg.MaxHeaderBytes)
		assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
		assert.Equal(t, "market-api", cfg.ServiceName)
		assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	})
}
