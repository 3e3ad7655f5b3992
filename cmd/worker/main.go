package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/infrastructure/observability"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/taskmarket/internal/worker"
)

const (
	telemetryFlushTimeout = 5 * time.Second
	startupJitter         = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

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

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		SkipMigrations:  !cfg.Database.AutoMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	w := worker.New(reconcile.NewService(store, cfg.Reconcile.Repair),
		worker.WithSchedule(cfg.Reconcile.Schedule),
		worker.WithOperationTimeout(cfg.Reconcile.OperationTimeout),
		worker.WithStartupJitter(startupJitter),
	)

	if err := w.Start(ctx); err != nil {
		return err
	}

	slog.Info("worker shut down gracefully")
	return nil
}
