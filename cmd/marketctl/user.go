package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/config"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var in admin.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account; helpers start unapproved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLIConfig()
			if err != nil {
				return err
			}
			store, closeFn, err := openStore(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := admin.NewService(store, nil, task.Config{}).CreateUser(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Role, "role", "customer", "customer, helper or admin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
