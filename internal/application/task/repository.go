package task

import (
	"context"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Repository defines storage operations for the task lifecycle.
// All create/update operations return the entity as persisted, including version.
type Repository interface {
	AggregateRepository

	// CreateTask stores a new task together with its initial history entry.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTaskByID retrieves a task with its full status history.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// FindTasks lists tasks newest first.
	FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error)

	// UpdateTask writes the task if its stored version equals params.ExpectedVersion
	// and appends params.AppendChange to the history.
	// Returns domain.ErrVersionConflict when the version moved, domain.ErrTaskNotFound when the task is gone.
	UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error)

	// FindHelperProfile retrieves the profile owned by userID.
	// Returns domain.ErrHelperProfileNotFound if the user has no profile.
	FindHelperProfile(ctx context.Context, userID string) (*domain.HelperProfile, error)

	// Atomic runs fn in a single transaction. The repository passed to fn is bound to it.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}

// AggregateRepository is the storage the helper aggregate updater needs.
// Implementations must be called inside the transaction that mutates the task.
type AggregateRepository interface {
	// RecordHelperEvent inserts the event into the idempotency ledger.
	// Returns false if the same task/kind pair was already recorded.
	RecordHelperEvent(ctx context.Context, event domain.HelperEvent) (bool, error)

	// FindHelperProfileForUpdate reads and locks the profile owned by userID until the transaction ends.
	// Returns domain.ErrHelperProfileNotFound if the user has no profile.
	FindHelperProfileForUpdate(ctx context.Context, userID string) (*domain.HelperProfile, error)

	// SaveHelperAggregates writes rating, totalRatings, completedTasks and earnings.
	SaveHelperAggregates(ctx context.Context, profile *domain.HelperProfile) error
}
