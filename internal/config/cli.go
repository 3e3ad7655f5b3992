package config

import (
	"fmt"

	"github.com/rezkam/taskmarket/internal/env"
)

// CLIConfig holds configuration for marketctl commands that touch the database.
type CLIConfig struct {
	Database DatabaseConfig
}

// Validate requires a database.
func (c *CLIConfig) Validate() error {
	return c.Database.RequireDSN()
}

// TokenCLIConfig adds signing settings for token issuance.
type TokenCLIConfig struct {
	CLIConfig
	Auth AuthConfig
}

// LoadCLIConfig loads and validates database configuration for marketctl.
func LoadCLIConfig() (*CLIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &CLIConfig{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load cli config: %w", err)
	}
	return cfg, nil
}

// LoadTokenCLIConfig loads database and signing configuration for marketctl token commands.
func LoadTokenCLIConfig() (*TokenCLIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &TokenCLIConfig{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load token config: %w", err)
	}
	return cfg, nil
}
