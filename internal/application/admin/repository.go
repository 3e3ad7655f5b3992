package admin

import (
	"context"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Repository defines storage operations for moderation and reporting.
type Repository interface {
	// CreateUser stores a user and, for helpers, its profile in one write.
	// Returns domain.ErrEmailTaken if the email is registered.
	CreateUser(ctx context.Context, user *domain.User, profile *domain.HelperProfile) (*domain.User, error)

	// FindUsers lists users newest first.
	FindUsers(ctx context.Context, params domain.ListUsersParams) ([]*domain.User, error)

	// FindUserByID returns domain.ErrUserNotFound if the user doesn't exist.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)

	// UpdateUserStatus overwrites the non-nil moderation flags.
	UpdateUserStatus(ctx context.Context, params domain.UpdateUserStatusParams) (*domain.User, error)

	// DeleteUser removes the user and its helper profile. Tasks are kept.
	DeleteUser(ctx context.Context, id string) error

	// FindPendingHelpers lists unapproved helper profiles with their users, newest first.
	FindPendingHelpers(ctx context.Context) ([]domain.HelperWithUser, error)

	// SetHelperApproval sets isApproved on the profile with the given profile id.
	SetHelperApproval(ctx context.Context, profileID string, approved bool) (*domain.HelperProfile, error)

	// FindTasks lists tasks newest first.
	FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error)

	// CountUsers counts users by role and helper state.
	CountUsers(ctx context.Context) (domain.UserCounts, error)

	// CountTasks counts tasks by status and category.
	CountTasks(ctx context.Context) (domain.TaskCounts, error)

	// CompletedRevenue sums finalPrice, falling back to estimatedPrice, over completed tasks.
	CompletedRevenue(ctx context.Context) (float64, error)

	// AtomicAdmin runs fn in a single transaction.
	AtomicAdmin(ctx context.Context, fn func(repo Repository) error) error
}

// SnapshotCache stores the latest analytics snapshot.
type SnapshotCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context) (*domain.AnalyticsSnapshot, error)
	Set(ctx context.Context, snapshot *domain.AnalyticsSnapshot) error
	Invalidate(ctx context.Context) error
}

type noopCache struct{}

func (noopCache) Get(context.Context) (*domain.AnalyticsSnapshot, error) { return nil, nil }
func (noopCache) Set(context.Context, *domain.AnalyticsSnapshot) error   { return nil }
func (noopCache) Invalidate(context.Context) error                      { return nil }
