package config

import (
	"errors"
	"time"
)

// ErrJWTSecretRequired is returned when no token signing secret is configured.
var ErrJWTSecretRequired = errors.New("MARKET_JWT_SECRET is required")

// AuthConfig holds token and authenticator configuration.
type AuthConfig struct {
	JWTSecret        string        `env:"MARKET_JWT_SECRET"`
	JWTIssuer        string        `env:"MARKET_JWT_ISSUER"`
	TokenTTL         time.Duration `env:"MARKET_TOKEN_TTL"`
	OperationTimeout time.Duration `env:"MARKET_AUTH_OPERATION_TIMEOUT"`
	UpdateQueueSize  int           `env:"MARKET_AUTH_UPDATE_QUEUE_SIZE"`
}

// Validate requires a signing secret.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return ErrJWTSecretRequired
	}
	return nil
}
