package config

import (
	"errors"
	"fmt"

	"github.com/rezkam/taskmarket/internal/env"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	DSN string `env:"MARKET_TEST_DB_DSN"`
}

// Validate requires the test DSN.
func (c *TestConfig) Validate() error {
	if c.DSN == "" {
		return errors.New("MARKET_TEST_DB_DSN is not set")
	}
	return nil
}

// LoadTestConfig loads and validates test configuration from environment.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}
