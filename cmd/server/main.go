package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/infrastructure/observability"
)

// telemetryFlushTimeout bounds the final export when the collector is unreachable.
const telemetryFlushTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		// slog may not be initialized if config fails
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	telemetry, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := telemetry.Shutdown(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush telemetry: %v\n", err)
		}
	}()

	server, cleanup, err := InitializeServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	defer cleanup()

	slog.InfoContext(ctx, "starting taskmarket server", "storage", storageName(cfg))

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")

		// ctx is already cancelled; shutdown gets a fresh deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		slog.Info("HTTP server shutdown complete")
		return nil
	case err := <-errResult:
		return err
	}
}

func storageName(cfg *config.ServerConfig) string {
	if cfg.StorageType == "" {
		return config.StoragePostgres
	}
	return cfg.StorageType
}
