package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rezkam/taskmarket/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	StorageType     string `env:"MARKET_STORAGE_TYPE"`
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Auth            AuthConfig
	Pagination      PaginationConfig
	Cache           CacheConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"MARKET_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"MARKET_HTTP_HOST"`
	Port              string        `env:"MARKET_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"MARKET_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"MARKET_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"MARKET_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"MARKET_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"MARKET_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"MARKET_HTTP_MAX_BODY_BYTES"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"MARKET_TLS_ENABLED"`
	TLSCertFile string `env:"MARKET_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"MARKET_TLS_KEY_FILE"`
}

// Validate checks TLS settings.
func (c *HTTPConfig) Validate() error {
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("MARKET_TLS_CERT_FILE and MARKET_TLS_KEY_FILE are required when MARKET_TLS_ENABLED is true")
	}
	return nil
}

// PaginationConfig holds list page sizes.
type PaginationConfig struct {
	DefaultPageSize int `env:"MARKET_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `env:"MARKET_MAX_PAGE_SIZE"`
}

// Validate rejects a maximum below the default when both are set.
func (c *PaginationConfig) Validate() error {
	if c.DefaultPageSize > 0 && c.MaxPageSize > 0 && c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("MARKET_MAX_PAGE_SIZE (%d) must be >= MARKET_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}

// CacheConfig holds the analytics snapshot cache settings. An empty address disables caching.
type CacheConfig struct {
	RedisAddr     string        `env:"MARKET_REDIS_ADDR"`
	RedisPassword string        `env:"MARKET_REDIS_PASSWORD"`
	RedisDB       int           `env:"MARKET_REDIS_DB"`
	TTL           time.Duration `env:"MARKET_CACHE_TTL"`
	KeyPrefix     string        `env:"MARKET_CACHE_KEY_PREFIX"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"MARKET_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// Validate checks cross-field storage settings.
func (c *ServerConfig) Validate() error {
	return validateStorage(c.StorageType, &c.Database)
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
