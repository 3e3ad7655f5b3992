package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
)

const snapshotKey = "analytics"

// Service provides moderation operations and the analytics snapshot.
type Service struct {
	repo   Repository
	cache  SnapshotCache
	config task.Config
	group  singleflight.Group
	now    func() time.Time
}

// NewService creates an admin service. A nil cache disables snapshot caching.
func NewService(repo Repository, cache SnapshotCache, config task.Config) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = task.DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = task.MaxPageSize
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Name  string
	Email string
	Phone string
	Role  string
}

// CreateUser provisions an account. Helpers get a fresh, unapproved profile in the same write.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	role, err := domain.NewRole(in.Role)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	now := s.now()
	user := &domain.User{
		ID:        id.String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var profile *domain.HelperProfile
	if role == domain.RoleHelper {
		profileID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate id: %w", err)
		}
		profile = domain.NewHelperProfile(profileID.String(), user.ID, now)
	}

	created, err := s.repo.CreateUser(ctx, user, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// ListUsersInput filters users. Empty Role and nil IsActive mean no filter.
type ListUsersInput struct {
	Role     string
	IsActive *bool
}

// ListUsers lists users newest first.
func (s *Service) ListUsers(ctx context.Context, in ListUsersInput) ([]*domain.User, error) {
	params := domain.ListUsersParams{IsActive: in.IsActive}
	if in.Role != "" {
		role, err := domain.NewRole(in.Role)
		if err != nil {
			return nil, err
		}
		params.Role = &role
	}
	return s.repo.FindUsers(ctx, params)
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if domain.ValidateID(id) != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindUserByID(ctx, id)
}

// UpdateUserStatus overwrites isActive and isVerified.
func (s *Service) UpdateUserStatus(ctx context.Context, params domain.UpdateUserStatusParams) (*domain.User, error) {
	if domain.ValidateID(params.UserID) != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.repo.UpdateUserStatus(ctx, params)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return user, nil
}

// DeleteUser removes an account and its helper profile.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if domain.ValidateID(id) != nil {
		return domain.ErrUserNotFound
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	slog.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// PendingHelpers lists helper profiles waiting for approval.
func (s *Service) PendingHelpers(ctx context.Context) ([]domain.HelperWithUser, error) {
	return s.repo.FindPendingHelpers(ctx)
}

// ApproveHelper sets the profile's approval and mirrors it onto the user's verified flag.
func (s *Service) ApproveHelper(ctx context.Context, profileID string, approved bool) (*domain.HelperProfile, error) {
	if domain.ValidateID(profileID) != nil {
		return nil, domain.ErrHelperProfileNotFound
	}

	var result *domain.HelperProfile
	err := s.repo.AtomicAdmin(ctx, func(repo Repository) error {
		profile, err := repo.SetHelperApproval(ctx, profileID, approved)
		if err != nil {
			return err
		}
		if _, err := repo.UpdateUserStatus(ctx, domain.UpdateUserStatusParams{
			UserID:     profile.UserID,
			IsVerified: &approved,
		}); err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "helper approval changed", "profile_id", profileID, "approved", approved)
	return result, nil
}

// ListTasksInput filters the admin task listing.
type ListTasksInput struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// ListTasks lists all tasks newest first.
func (s *Service) ListTasks(ctx context.Context, in ListTasksInput) (*domain.PagedTasks, error) {
	params := domain.ListTasksParams{
		Limit:  task.ClampPageSize(in.Limit, s.config.DefaultPageSize, s.config.MaxPageSize),
		Offset: max(in.Offset, 0),
	}
	if in.Status != "" {
		status, err := domain.NewTaskStatus(in.Status)
		if err != nil {
			return nil, err
		}
		params.Statuses = []domain.TaskStatus{status}
	}
	if in.Category != "" {
		category, err := domain.NewCategory(in.Category)
		if err != nil {
			return nil, err
		}
		params.Categories = []domain.Category{category}
	}
	return s.repo.FindTasks(ctx, params)
}

// Analytics returns the dashboard snapshot, from cache when fresh.
// Concurrent misses share one computation.
func (s *Service) Analytics(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "analytics cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(snapshotKey, func() (any, error) {
		snapshot, err := s.computeSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, snapshot); err != nil {
			slog.WarnContext(ctx, "analytics cache write failed", "error", err)
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AnalyticsSnapshot), nil
}

func (s *Service) computeSnapshot(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	tasks, err := s.repo.CountTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	revenue, err := s.repo.CompletedRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	recent, err := s.repo.FindTasks(ctx, domain.ListTasksParams{Limit: domain.RecentTasksLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}

	summaries := make([]domain.TaskSummary, 0, len(recent.Tasks))
	for _, t := range recent.Tasks {
		summaries = append(summaries, t.Summarize())
	}

	return &domain.AnalyticsSnapshot{
		Users: users,
		Tasks: tasks,
		Revenue: domain.Revenue{
			Total:          revenue,
			Average:        domain.AverageRevenue(revenue, tasks.Completed),
			CompletedTasks: tasks.Completed,
		},
		RecentTasks: summaries,
		GeneratedAt: s.now(),
	}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "analytics cache invalidation failed", "error", err)
	}
}
