package reconcile

import (
	"context"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Repository defines storage operations for aggregate reconciliation.
type Repository interface {
	// TryAcquireReconcileLock takes a lock held until the enclosing transaction ends.
	// Returns false if another run holds it.
	TryAcquireReconcileLock(ctx context.Context) (bool, error)

	// ComputeHelperAggregates recomputes every helper's totals from task history.
	ComputeHelperAggregates(ctx context.Context) ([]domain.HelperAggregates, error)

	// FindHelperProfileForUpdate reads and locks a profile.
	FindHelperProfileForUpdate(ctx context.Context, userID string) (*domain.HelperProfile, error)

	// SaveHelperAggregates writes rating, totalRatings, completedTasks and earnings.
	SaveHelperAggregates(ctx context.Context, profile *domain.HelperProfile) error

	// AtomicReconcile runs fn in a single transaction.
	AtomicReconcile(ctx context.Context, fn func(repo Repository) error) error
}
