package helper

import (
	"context"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Repository defines storage operations for helper self-service.
type Repository interface {
	// FindHelperProfile retrieves the profile owned by userID.
	// Returns domain.ErrHelperProfileNotFound if the user has no profile.
	FindHelperProfile(ctx context.Context, userID string) (*domain.HelperProfile, error)

	// UpdateHelperProfile overwrites the non-nil fields in params and returns the stored profile.
	UpdateHelperProfile(ctx context.Context, params domain.UpdateHelperProfileParams) (*domain.HelperProfile, error)

	// SetHelperOnline sets the online flag and returns the stored profile.
	SetHelperOnline(ctx context.Context, userID string, online bool) (*domain.HelperProfile, error)

	// FindTasks lists tasks newest first.
	FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error)
}
