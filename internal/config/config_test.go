package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the env file at an empty temp dir so a developer's .env can't leak in.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("MARKET_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadServerConfig(t *testing.T) {
	isolate(t)
	t.Setenv("MARKET_DB_DSN", "postgres://market:secret@db:5432/market")
	t.Setenv("MARKET_JWT_SECRET", "s3cret")
	t.Setenv("MARKET_HTTP_PORT", "9000")
	t.Setenv("MARKET_DB_CONN_MAX_LIFETIME", "10m")
	t.Setenv("MARKET_CACHE_TTL", "30s")
	t.Setenv("MARKET_DEFAULT_PAGE_SIZE", "20")
	t.Setenv("MARKET_MAX_PAGE_SIZE", "40")
	t.Setenv("MARKET_SHUTDOWN_TIMEOUT", "15s")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://market:secret@db:5432/market", cfg.Database.DSN)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 20, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 40, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadServerConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "postgres needs a DSN",
			env:     map[string]string{"MARKET_JWT_SECRET": "x"},
			wantErr: "MARKET_DB_DSN is required",
		},
		{
			name:    "secret required",
			env:     map[string]string{"MARKET_STORAGE_TYPE": "memory"},
			wantErr: "MARKET_JWT_SECRET is required",
		},
		{
			name:    "unknown storage",
			env:     map[string]string{"MARKET_STORAGE_TYPE": "mongo", "MARKET_JWT_SECRET": "x"},
			wantErr: "unsupported MARKET_STORAGE_TYPE",
		},
		{
			name: "max page below default",
			env: map[string]string{
				"MARKET_STORAGE_TYPE": "memory", "MARKET_JWT_SECRET": "x",
				"MARKET_DEFAULT_PAGE_SIZE": "50", "MARKET_MAX_PAGE_SIZE": "10",
			},
			wantErr: "MARKET_MAX_PAGE_SIZE (10) must be >= MARKET_DEFAULT_PAGE_SIZE (50)",
		},
		{
			name: "tls without files",
			env: map[string]string{
				"MARKET_STORAGE_TYPE": "memory", "MARKET_JWT_SECRET": "x", "MARKET_TLS_ENABLED": "true",
			},
			wantErr: "MARKET_TLS_CERT_FILE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("MARKET_DB_DSN", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadServerConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadServerConfig_MemoryNeedsNoDSN(t *testing.T) {
	isolate(t)
	t.Setenv("MARKET_DB_DSN", "")
	t.Setenv("MARKET_STORAGE_TYPE", "memory")
	t.Setenv("MARKET_JWT_SECRET", "x")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageType)
}

func TestLoadWorkerConfig(t *testing.T) {
	isolate(t)
	t.Setenv("MARKET_DB_DSN", "postgres://localhost/market")
	t.Setenv("MARKET_RECONCILE_SCHEDULE", "@every 30m")
	t.Setenv("MARKET_RECONCILE_REPAIR", "true")

	cfg, err := LoadWorkerConfig()
	require.NoError(t, err)
	assert.Equal(t, "@every 30m", cfg.Reconcile.Schedule)
	assert.True(t, cfg.Reconcile.Repair)

	t.Setenv("MARKET_DB_DSN", "")
	_, err = LoadWorkerConfig()
	assert.ErrorIs(t, err, ErrDSNRequired)
}

func TestLoadTokenCLIConfig_RequiresSecret(t *testing.T) {
	isolate(t)
	t.Setenv("MARKET_DB_DSN", "postgres://localhost/market")
	t.Setenv("MARKET_JWT_SECRET", "")

	_, err := LoadTokenCLIConfig()
	assert.ErrorIs(t, err, ErrJWTSecretRequired)

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/market", cfg.Database.DSN)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market.env")
	require.NoError(t, os.WriteFile(path, []byte("MARKET_HTTP_PORT=7070\nMARKET_JWT_SECRET=from-file\n"), 0o600))

	t.Setenv("MARKET_ENV_FILE", path)
	t.Setenv("MARKET_STORAGE_TYPE", "memory")
	t.Setenv("MARKET_JWT_SECRET", "from-env")
	t.Setenv("MARKET_HTTP_PORT", "")
	os.Unsetenv("MARKET_HTTP_PORT")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTP.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret, "process environment wins over the file")
}
