package config

import (
	"fmt"
	"time"

	"github.com/rezkam/taskmarket/internal/env"
)

// WorkerConfig holds all configuration for the worker binary.
type WorkerConfig struct {
	Database      DatabaseConfig
	Reconcile     ReconcileConfig
	Observability ObservabilityConfig
}

// ReconcileConfig holds aggregate reconciliation settings.
type ReconcileConfig struct {
	// Schedule is a robfig/cron spec, e.g. "@every 1h" or "0 3 * * *".
	Schedule         string        `env:"MARKET_RECONCILE_SCHEDULE"`
	Repair           bool          `env:"MARKET_RECONCILE_REPAIR"`
	OperationTimeout time.Duration `env:"MARKET_RECONCILE_TIMEOUT"`
}

// Validate requires a database.
func (c *WorkerConfig) Validate() error {
	return c.Database.RequireDSN()
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
