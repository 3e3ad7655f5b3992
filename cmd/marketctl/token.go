package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/config"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens",
	}
	cmd.AddCommand(tokenIssueCmd())
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for an active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadTokenCLIConfig()
			if err != nil {
				return err
			}

			tokens, err := auth.NewTokenManager(auth.TokenConfig{
				Secret: cfg.Auth.JWTSecret,
				Issuer: cfg.Auth.JWTIssuer,
				TTL:    cfg.Auth.TokenTTL,
			})
			if err != nil {
				return err
			}

			store, closeFn, err := openStore(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer closeFn()

			token, err := auth.IssueToken(cmd.Context(), tokens, store, userID, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			// Only the token goes to stdout so it can be captured by scripts.
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default MARKET_TOKEN_TTL or 24h)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
