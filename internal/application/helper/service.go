package helper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
)

// RecentEarningsTasks bounds the completed-task listing in an earnings summary.
const RecentEarningsTasks = 10

// Service provides helper self-service operations.
type Service struct {
	repo   Repository
	config task.Config
}

// NewService creates a helper service. Page sizes follow the task service defaults.
func NewService(repo Repository, config task.Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = task.DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = task.MaxPageSize
	}
	return &Service{repo: repo, config: config}
}

// GetProfile returns the caller's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.HelperProfile, error) {
	return s.repo.FindHelperProfile(ctx, userID)
}

// UpdateProfileInput carries the editable fields. Nil means unchanged.
type UpdateProfileInput struct {
	UserID       string
	Categories   []string
	Experience   *int
	Availability *string
	VehicleType  *string
	Documents    *domain.Documents
}

// UpdateProfile validates and stores profile edits. Documents are merged field by field.
func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.HelperProfile, error) {
	params := domain.UpdateHelperProfileParams{UserID: in.UserID}

	if in.Categories != nil {
		params.Categories = make([]domain.Category, 0, len(in.Categories))
		seen := make(map[domain.Category]bool, len(in.Categories))
		for _, raw := range in.Categories {
			c, err := domain.NewCategory(raw)
			if err != nil {
				return nil, err
			}
			if !seen[c] {
				seen[c] = true
				params.Categories = append(params.Categories, c)
			}
		}
	}
	if in.Experience != nil {
		if *in.Experience < 0 {
			return nil, domain.ErrInvalidExperience
		}
		params.Experience = in.Experience
	}
	if in.Availability != nil {
		a, err := domain.NewAvailability(*in.Availability)
		if err != nil {
			return nil, err
		}
		params.Availability = &a
	}
	if in.VehicleType != nil {
		v, err := domain.NewVehicleType(*in.VehicleType)
		if err != nil {
			return nil, err
		}
		params.VehicleType = &v
	}

	if in.Documents != nil {
		current, err := s.repo.FindHelperProfile(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		merged := current.Documents.Merge(*in.Documents)
		params.Documents = &merged
	}

	profile, err := s.repo.UpdateHelperProfile(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update helper profile: %w", err)
	}
	return profile, nil
}

// ToggleOnline flips the caller's online flag. Only approved helpers can go online.
func (s *Service) ToggleOnline(ctx context.Context, userID string) (*domain.HelperProfile, error) {
	profile, err := s.repo.FindHelperProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsApproved {
		return nil, domain.ErrHelperNotApproved
	}

	updated, err := s.repo.SetHelperOnline(ctx, userID, !profile.IsOnline)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle online status: %w", err)
	}

	slog.InfoContext(ctx, "helper availability changed", "helper_id", userID, "online", updated.IsOnline)
	return updated, nil
}

// AvailableTasks lists pending tasks in the categories the caller serves, newest first.
func (s *Service) AvailableTasks(ctx context.Context, userID string, limit, offset int) (*domain.PagedTasks, error) {
	profile, err := s.repo.FindHelperProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsApproved {
		return nil, domain.ErrHelperNotApproved
	}
	if len(profile.Categories) == 0 {
		return &domain.PagedTasks{Tasks: []*domain.Task{}}, nil
	}

	return s.repo.FindTasks(ctx, domain.ListTasksParams{
		Statuses:   []domain.TaskStatus{domain.TaskStatusPending},
		Categories: profile.Categories,
		Limit:      task.ClampPageSize(limit, s.config.DefaultPageSize, s.config.MaxPageSize),
		Offset:     max(offset, 0),
	})
}

// Earnings returns the caller's earnings, rating and most recent completed tasks.
func (s *Service) Earnings(ctx context.Context, userID string) (*domain.EarningsSummary, error) {
	profile, err := s.repo.FindHelperProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.FindTasks(ctx, domain.ListTasksParams{
		HelperID: userID,
		Statuses: []domain.TaskStatus{domain.TaskStatusCompleted},
		Limit:    RecentEarningsTasks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	return &domain.EarningsSummary{
		Earnings:       profile.Earnings,
		CompletedTasks: profile.CompletedTasks,
		Rating:         profile.Rating,
		TotalRatings:   profile.TotalRatings,
		RecentTasks:    recent.Tasks,
	}, nil
}
