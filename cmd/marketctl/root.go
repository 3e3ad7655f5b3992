package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres"
)

var debug bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "marketctl administers a taskmarket deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(migrateCmd())
	root.AddCommand(userCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(reconcileCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// openStore connects without migrating; only the migrate command changes the schema.
func openStore(ctx context.Context, db config.DatabaseConfig) (*postgres.Store, func(), error) {
	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             db.DSN,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnMaxIdleTime: db.ConnMaxIdleTime,
		SkipMigrations:  true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}, nil
}
