package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLIConfig()
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
