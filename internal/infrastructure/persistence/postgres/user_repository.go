package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rezkam/taskmarket/internal/domain"
)

// === User Repository Implementation ===

// CreateUser inserts the user and, for helpers, its profile in one transaction.
func (s *Store) CreateUser(ctx context.Context, user *domain.User, profile *domain.HelperProfile) (*domain.User, error) {
	var created *domain.User
	err := s.executeInTransaction(ctx, "create_user", func(tx *Store) error {
		u, err := scanUser(tx.db.QueryRow(ctx, `
			INSERT INTO users (id, name, email, phone, role, is_active, is_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+userColumns,
			user.ID, user.Name, user.Email, user.Phone, string(user.Role),
			user.IsActive, user.IsVerified, user.CreatedAt, user.UpdatedAt))
		if err != nil {
			if isUniqueViolation(err, "users_email_key") {
				return fmt.Errorf("%w: %s", domain.ErrEmailTaken, user.Email)
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		created = u

		if profile == nil {
			return nil
		}
		_, err = tx.db.Exec(ctx, `
			INSERT INTO helper_profiles (id, user_id, categories, experience, availability, vehicle_type,
				id_proof, address_proof, photo, is_online, is_approved, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			profile.ID, profile.UserID, categoriesToStrings(profile.Categories), profile.Experience,
			string(profile.Availability), string(profile.VehicleType),
			profile.Documents.IDProof, profile.Documents.AddressProof, profile.Documents.Photo,
			profile.IsOnline, profile.IsApproved, profile.CreatedAt, profile.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert helper profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindUserByID retrieves a user.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// FindUsers lists users newest first.
func (s *Store) FindUsers(ctx context.Context, params domain.ListUsersParams) ([]*domain.User, error) {
	var (
		clauses []string
		args    []any
	)
	if params.Role != nil {
		args = append(args, string(*params.Role))
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return users, nil
}

// UpdateUserStatus overwrites the non-nil moderation flags.
func (s *Store) UpdateUserStatus(ctx context.Context, params domain.UpdateUserStatusParams) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		UPDATE users SET
			is_active = COALESCE($2, is_active),
			is_verified = COALESCE($3, is_verified),
			updated_at = $4
		WHERE id = $1
		RETURNING `+userColumns,
		params.UserID, params.IsActive, params.IsVerified, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, params.UserID)
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return u, nil
}

// DeleteUser removes the user. The helper profile goes with it via ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return nil
}

// UpdateLastSeen moves last_seen_at forward. An older timestamp is ignored.
// Returns ErrUserNotFound if the user doesn't exist.
func (s *Store) UpdateLastSeen(ctx context.Context, userID string, timestamp time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET last_seen_at = $2
		WHERE id = $1 AND (last_seen_at IS NULL OR last_seen_at < $2)`,
		userID, timestamp)
	if err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Either the user is gone or the stored timestamp is already later.
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}
