package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for migrations
	"github.com/pressly/goose/v3"

	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres/migrations"
)

// Pool defaults applied when DBConfig leaves a field at zero.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultConnMaxIdleTime = 1 * time.Minute
)

// DBConfig holds PostgreSQL database connection configuration.
type DBConfig struct {
	DSN             string        // PostgreSQL connection string
	MaxOpenConns    int           // Maximum open connections (default: 25)
	MaxIdleConns    int           // Maximum idle connections (default: 5)
	ConnMaxLifetime time.Duration // Connection max lifetime (default: 5min)
	ConnMaxIdleTime time.Duration // Connection max idle time (default: 1min)
	SkipMigrations  bool          // Leave the schema untouched on startup
}

// NewStoreWithConfig creates a PostgreSQL store and, unless disabled, applies pending migrations.
func NewStoreWithConfig(ctx context.Context, cfg DBConfig) (*Store, error) {
	if !cfg.SkipMigrations {
		if err := RunMigrations(ctx, cfg.DSN); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(orDefault(cfg.MaxOpenConns, DefaultMaxOpenConns))
	poolConfig.MinConns = int32(orDefault(cfg.MaxIdleConns, DefaultMaxIdleConns))
	poolConfig.MaxConnLifetime = orDefault(cfg.ConnMaxLifetime, DefaultConnMaxLifetime)
	poolConfig.MaxConnIdleTime = orDefault(cfg.ConnMaxIdleTime, DefaultConnMaxIdleTime)

	// Timestamps are always read back in UTC.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET TIMEZONE='UTC'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewStore(pool), nil
}

// NewPostgresStore creates a PostgreSQL store with default connection pool settings.
func NewPostgresStore(ctx context.Context, connString string) (*Store, error) {
	return NewStoreWithConfig(ctx, DBConfig{
		DSN: connString,
	})
}

// RunMigrations applies the embedded goose migrations.
// Uses a temporary database/sql connection since goose requires it.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.ErrorContext(ctx, "Failed to close migration database connection", "error", err)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(migrations.FS)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
