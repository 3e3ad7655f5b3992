package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/infrastructure/cache"
	httpserver "github.com/rezkam/taskmarket/internal/infrastructure/http"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/memory"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres"
)

// DefaultShutdownTimeout bounds graceful shutdown when MARKET_SHUTDOWN_TIMEOUT is unset.
const DefaultShutdownTimeout = 10 * time.Second

// marketStore is implemented by both storage backends.
type marketStore interface {
	task.Repository
	helper.Repository
	admin.Repository
	auth.Repository
	io.Closer
}

var (
	_ marketStore = (*postgres.Store)(nil)
	_ marketStore = (*memory.Store)(nil)
)

// provideStore opens the configured backend. Postgres migrations run only with MARKET_DB_AUTO_MIGRATE.
func provideStore(ctx context.Context, cfg *config.ServerConfig) (marketStore, error) {
	if cfg.StorageType == config.StorageMemory {
		slog.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		SkipMigrations:  !cfg.Database.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	slog.InfoContext(ctx, "storage initialized", "dsn", maskPassword(cfg.Database.DSN))
	return store, nil
}

func taskRepository(s marketStore) task.Repository     { return s }
func helperRepository(s marketStore) helper.Repository { return s }
func adminRepository(s marketStore) admin.Repository   { return s }
func authRepository(s marketStore) auth.Repository     { return s }

func provideTaskConfig(cfg *config.ServerConfig) task.Config {
	return task.Config{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	}
}

// provideSnapshotCache connects to Redis when MARKET_REDIS_ADDR is set.
// Without it the admin service computes analytics on every request.
func provideSnapshotCache(ctx context.Context, cfg *config.ServerConfig) (admin.SnapshotCache, func(), error) {
	if cfg.Cache.RedisAddr == "" {
		return nil, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.Config{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}

	slog.InfoContext(ctx, "analytics snapshot cache enabled", "addr", cfg.Cache.RedisAddr)
	return cache.NewSnapshotCache(client, cfg.Cache.KeyPrefix, cfg.Cache.TTL), cleanup, nil
}

func provideTokenManager(cfg *config.ServerConfig) (*auth.TokenManager, error) {
	return auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
}

func provideAuthConfig(cfg *config.ServerConfig) auth.Config {
	return auth.Config{
		OperationTimeout: cfg.Auth.OperationTimeout,
		UpdateQueueSize:  cfg.Auth.UpdateQueueSize,
	}
}

// provideAPIServer builds the HTTP server alongside the cleanup hook so Wire can
// return both without custom wiring in main.
func provideAPIServer(cfg *config.ServerConfig, apiHandler http.Handler, authenticator *auth.Authenticator, store marketStore) (*httpserver.APIServer, func()) {
	server := httpserver.NewAPIServer(apiHandler, authenticator, httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		TLSEnabled:        cfg.HTTP.TLSEnabled,
		TLSCertFile:       cfg.HTTP.TLSCertFile,
		TLSKeyFile:        cfg.HTTP.TLSKeyFile,
		ServiceName:       cfg.Observability.ServiceName,
	})
	return server, newCleanup(shutdownTimeout(cfg), authenticator, store)
}

func shutdownTimeout(cfg *config.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return cfg.ShutdownTimeout
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
