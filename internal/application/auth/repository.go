package auth

import (
	"context"
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Repository defines storage operations for authentication.
type Repository interface {
	// FindUserByID returns domain.ErrUserNotFound if the user doesn't exist.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)

	// UpdateLastSeen records the last time the user authenticated.
	UpdateLastSeen(ctx context.Context, userID string, timestamp time.Time) error
}
