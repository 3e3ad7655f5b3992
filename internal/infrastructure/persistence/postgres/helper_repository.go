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

// === Helper Profile Repository Implementation ===

// FindHelperProfile retrieves the profile owned by userID.
func (s *Store) FindHelperProfile(ctx context.Context, userID string) (*domain.HelperProfile, error) {
	return s.findProfile(ctx, `SELECT `+profileColumns+` FROM helper_profiles WHERE user_id = $1`, userID)
}

// FindHelperProfileForUpdate reads the profile with a row lock held until the transaction ends.
func (s *Store) FindHelperProfileForUpdate(ctx context.Context, userID string) (*domain.HelperProfile, error) {
	return s.findProfile(ctx, `SELECT `+profileColumns+` FROM helper_profiles WHERE user_id = $1 FOR UPDATE`, userID)
}

func (s *Store) findProfile(ctx context.Context, query, userID string, args ...any) (*domain.HelperProfile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, query, append([]any{userID}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrHelperProfileNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get helper profile: %w", err)
	}
	return p, nil
}

// UpdateHelperProfile overwrites the non-nil fields in params.
func (s *Store) UpdateHelperProfile(ctx context.Context, params domain.UpdateHelperProfileParams) (*domain.HelperProfile, error) {
	sets := []string{"updated_at = $2"}
	args := []any{params.UserID, time.Now().UTC()}
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Categories != nil {
		set("categories", categoriesToStrings(params.Categories))
	}
	if params.Experience != nil {
		set("experience", *params.Experience)
	}
	if params.Availability != nil {
		set("availability", string(*params.Availability))
	}
	if params.VehicleType != nil {
		set("vehicle_type", string(*params.VehicleType))
	}
	if params.Documents != nil {
		set("id_proof", params.Documents.IDProof)
		set("address_proof", params.Documents.AddressProof)
		set("photo", params.Documents.Photo)
	}

	query := `UPDATE helper_profiles SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = $1 RETURNING ` + profileColumns
	return s.findProfile(ctx, query, params.UserID, args[1:]...)
}

// SetHelperOnline sets the online flag.
func (s *Store) SetHelperOnline(ctx context.Context, userID string, online bool) (*domain.HelperProfile, error) {
	return s.findProfile(ctx, `
		UPDATE helper_profiles SET is_online = $2, updated_at = $3
		WHERE user_id = $1
		RETURNING `+profileColumns, userID, online, time.Now().UTC())
}

// SetHelperApproval sets the approval flag on the profile with the given profile id.
func (s *Store) SetHelperApproval(ctx context.Context, profileID string, approved bool) (*domain.HelperProfile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `
		UPDATE helper_profiles SET is_approved = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+profileColumns, profileID, approved, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrHelperProfileNotFound, profileID)
		}
		return nil, fmt.Errorf("failed to set helper approval: %w", err)
	}
	return p, nil
}

// SaveHelperAggregates writes rating, totalRatings, completedTasks and earnings.
func (s *Store) SaveHelperAggregates(ctx context.Context, profile *domain.HelperProfile) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE helper_profiles SET
			rating = $2,
			total_ratings = $3,
			completed_tasks = $4,
			earnings_total = $5,
			earnings_pending = $6,
			earnings_withdrawn = $7,
			updated_at = $8
		WHERE user_id = $1`,
		profile.UserID, profile.Rating, profile.TotalRatings, profile.CompletedTasks,
		profile.Earnings.Total, profile.Earnings.Pending, profile.Earnings.Withdrawn, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save helper aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrHelperProfileNotFound, profile.UserID)
	}
	return nil
}

// FindPendingHelpers lists unapproved profiles with their users, newest first.
func (s *Store) FindPendingHelpers(ctx context.Context) ([]domain.HelperWithUser, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM helper_profiles
		WHERE NOT is_approved
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending helpers: %w", err)
	}
	profiles, err := collect(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending helpers: %w", err)
	}
	if len(profiles) == 0 {
		return []domain.HelperWithUser{}, nil
	}

	userIDs := make([]string, len(profiles))
	for i, p := range profiles {
		userIDs[i] = p.UserID
	}
	rows, err = s.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending helper users: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending helper users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]domain.HelperWithUser, 0, len(profiles))
	for _, p := range profiles {
		if u, ok := byID[p.UserID]; ok {
			result = append(result, domain.HelperWithUser{Profile: p, User: u})
		}
	}
	return result, nil
}
