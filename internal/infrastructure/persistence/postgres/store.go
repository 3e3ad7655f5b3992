package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/application/task"
)

// dbtx is satisfied by both the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides PostgreSQL implementation of all repository interfaces.
//
// This store implements:
// - application/task.Repository (task lifecycle and helper aggregates)
// - application/helper.Repository (helper self-service)
// - application/admin.Repository (moderation and reporting)
// - application/auth.Repository (token authentication)
// - application/reconcile.Repository (aggregate reconciliation)
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
	inTx bool
}

// Compile-time verification that Store implements all repository interfaces.
var (
	_ task.Repository      = (*Store)(nil)
	_ helper.Repository    = (*Store)(nil)
	_ admin.Repository     = (*Store)(nil)
	_ auth.Repository      = (*Store)(nil)
	_ reconcile.Repository = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// finalizeTx rolls back on error and commits on success.
// Panics are handled separately in the defer blocks before finalizeTx is called.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back",
			"error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
	} else {
		*err = tx.Commit(ctx)
		if *err != nil {
			slog.ErrorContext(ctx, "transaction commit failed",
				"error", *err)
		}
	}
}

// executeInTransaction runs fn within a transaction with logging and panic recovery.
// Inside an open transaction fn joins it instead of starting a new one.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(txStore *Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"panic", p,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	txStore := &Store{
		pool: s.pool,
		db:   tx,
		inTx: true,
	}

	err = fn(txStore)
	return
}

// Atomic executes fn within a database transaction.
// The callback receives a Repository bound to the transaction.
func (s *Store) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic_task", func(txStore *Store) error {
		return fn(txStore)
	})
}

// AtomicAdmin executes fn with admin operations in a transaction.
func (s *Store) AtomicAdmin(ctx context.Context, fn func(repo admin.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic_admin", func(txStore *Store) error {
		return fn(txStore)
	})
}

// AtomicReconcile executes fn with reconciliation operations in a transaction.
func (s *Store) AtomicReconcile(ctx context.Context, fn func(repo reconcile.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic_reconcile", func(txStore *Store) error {
		return fn(txStore)
	})
}
