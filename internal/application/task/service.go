package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/pricing"
)

// Default configuration values.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

const meterName = "github.com/rezkam/taskmarket/internal/application/task"

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Service owns task state. Every status change goes through the domain transition table,
// is persisted with a version check and runs in one transaction with any helper aggregate update.
type Service struct {
	repo        Repository
	aggregates  *AggregateUpdater
	config      Config
	now         func() time.Time
	transitions metric.Int64Counter
}

// NewService creates a new task service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}

	counter, err := otel.Meter(meterName).Int64Counter("taskmarket.task.transitions",
		metric.WithDescription("Task status assignments by resulting status"))
	if err != nil {
		counter = noop.Int64Counter{}
	}

	return &Service{
		repo:        repo,
		aggregates:  NewAggregateUpdater(),
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
		transitions: counter,
	}
}

// CreateTaskInput is a customer's task request.
type CreateTaskInput struct {
	CustomerID     string
	Category       string
	Title          string
	Description    string
	ScheduledTime  time.Time
	PickupLocation *domain.Location
	DropLocation   *domain.Location
}

// CreateTask validates the request, prices it and stores a pending task.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, pricing.Breakdown, error) {
	category, err := domain.NewCategory(in.Category)
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}
	title, err := domain.NewTitle(in.Title)
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, pricing.Breakdown{}, domain.ErrDescriptionRequired
	}
	if in.ScheduledTime.IsZero() {
		return nil, pricing.Breakdown{}, domain.ErrScheduledTimeZero
	}
	if err := validateLocations(in.PickupLocation, in.DropLocation); err != nil {
		return nil, pricing.Breakdown{}, err
	}

	estimate := pricing.EstimateRoute(category, in.PickupLocation, in.DropLocation, pricing.Flags{})

	id, err := uuid.NewV7()
	if err != nil {
		return nil, pricing.Breakdown{}, fmt.Errorf("failed to generate id: %w", err)
	}

	t := domain.NewTask(id.String(), in.CustomerID, category, title, description,
		in.ScheduledTime, estimate.Breakdown.TotalPrice, s.now())
	t.PickupLocation = in.PickupLocation
	t.DropLocation = in.DropLocation

	created, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		return nil, pricing.Breakdown{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(created.Status))))
	slog.InfoContext(ctx, "task created",
		"task_id", created.ID,
		"customer_id", created.CustomerID,
		"category", created.Category,
		"estimated_price", created.EstimatedPrice)

	return created, estimate.Breakdown, nil
}

// EstimateInput is a price quote request.
type EstimateInput struct {
	Category       string
	PickupLocation *domain.Location
	DropLocation   *domain.Location
	Flags          pricing.Flags
}

// EstimatePrice quotes a route without storing anything.
func (s *Service) EstimatePrice(_ context.Context, in EstimateInput) (pricing.Estimate, error) {
	category, err := domain.NewCategory(in.Category)
	if err != nil {
		return pricing.Estimate{}, err
	}
	if err := validateLocations(in.PickupLocation, in.DropLocation); err != nil {
		return pricing.Estimate{}, err
	}
	return pricing.EstimateRoute(category, in.PickupLocation, in.DropLocation, in.Flags), nil
}

// GetTask returns a task visible to the caller: its customer, its helper or an admin.
func (s *Service) GetTask(ctx context.Context, caller domain.Identity, id string) (*domain.Task, error) {
	t, err := s.findTask(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(caller.UserID, caller.Role) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrForbidden, id)
	}
	return t, nil
}

// GetCustomerTask returns one of the customer's own tasks.
func (s *Service) GetCustomerTask(ctx context.Context, customerID, id string) (*domain.Task, error) {
	t, err := s.findTask(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if t.CustomerID != customerID {
		return nil, domain.ErrNotTaskOwner
	}
	return t, nil
}

// ListInput filters a task listing. An empty Status means all statuses.
type ListInput struct {
	Status string
	Limit  int
	Offset int
}

// ListCustomerTasks lists the customer's tasks, newest first.
func (s *Service) ListCustomerTasks(ctx context.Context, customerID string, in ListInput) (*domain.PagedTasks, error) {
	params, err := s.listParams(in)
	if err != nil {
		return nil, err
	}
	params.CustomerID = customerID
	return s.findTasks(ctx, params)
}

// ListHelperTasks lists tasks assigned to the helper, newest first.
func (s *Service) ListHelperTasks(ctx context.Context, helperID string, in ListInput) (*domain.PagedTasks, error) {
	params, err := s.listParams(in)
	if err != nil {
		return nil, err
	}
	params.HelperID = helperID
	return s.findTasks(ctx, params)
}

// AcceptTask assigns a pending task to an approved, online helper.
func (s *Service) AcceptTask(ctx context.Context, helperID, taskID string) (*domain.Task, error) {
	var result *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		t, err := s.findTask(ctx, repo, taskID)
		if err != nil {
			return err
		}
		if t.Status != domain.TaskStatusPending {
			return fmt.Errorf("%w: status is %s", domain.ErrTaskNotPending, t.Status)
		}

		profile, err := repo.FindHelperProfile(ctx, helperID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no helper profile", domain.ErrForbidden)
			}
			return fmt.Errorf("failed to load helper profile: %w", err)
		}
		if err := profile.CanAccept(); err != nil {
			return err
		}

		expected := t.Version
		from := t.Status
		if err := t.Accept(helperID, s.now()); err != nil {
			return err
		}
		result, err = s.saveTransition(ctx, repo, t, expected, from)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RejectTask marks a pending task rejected.
func (s *Service) RejectTask(ctx context.Context, helperID, taskID string) (*domain.Task, error) {
	var result *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		t, err := s.findTask(ctx, repo, taskID)
		if err != nil {
			return err
		}

		expected := t.Version
		from := t.Status
		if err := t.Reject(s.now()); err != nil {
			return err
		}
		slog.InfoContext(ctx, "task rejected by helper", "task_id", t.ID, "helper_id", helperID)
		result, err = s.saveTransition(ctx, repo, t, expected, from)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTaskStatus moves an assigned task to in_progress or completed.
// Completing credits the helper in the same transaction.
func (s *Service) UpdateTaskStatus(ctx context.Context, helperID, taskID, status, note string) (*domain.Task, error) {
	var result *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		t, err := s.findTask(ctx, repo, taskID)
		if err != nil {
			return err
		}
		if !t.IsAssignedTo(helperID) {
			return domain.ErrNotAssignedHelper
		}

		to, err := domain.NewTaskStatus(status)
		if err != nil {
			return err
		}

		expected := t.Version
		from := t.Status
		if err := t.Advance(to, note, s.now()); err != nil {
			return err
		}
		result, err = s.saveTransition(ctx, repo, t, expected, from)
		if err != nil {
			return err
		}

		if to == domain.TaskStatusCompleted {
			return s.aggregates.OnTaskCompleted(ctx, repo, result.ID, helperID, *result.FinalPrice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelTask cancels one of the customer's pending or accepted tasks.
func (s *Service) CancelTask(ctx context.Context, customerID, taskID, reason string) (*domain.Task, error) {
	var result *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		t, err := s.findTask(ctx, repo, taskID)
		if err != nil {
			return err
		}
		if t.CustomerID != customerID {
			return domain.ErrNotTaskOwner
		}

		expected := t.Version
		from := t.Status
		if err := t.Cancel(reason, s.now()); err != nil {
			return err
		}
		result, err = s.saveTransition(ctx, repo, t, expected, from)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RateTask stores the customer's review of a completed task and folds it into the helper's rating.
func (s *Service) RateTask(ctx context.Context, customerID, taskID string, rating float64, review string) (*domain.Task, error) {
	var result *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		t, err := s.findTask(ctx, repo, taskID)
		if err != nil {
			return err
		}
		if t.CustomerID != customerID {
			return domain.ErrNotTaskOwner
		}
		if t.Status != domain.TaskStatusCompleted {
			return fmt.Errorf("%w: status is %s", domain.ErrTaskNotCompleted, t.Status)
		}
		score, err := domain.NewScore(rating)
		if err != nil {
			return err
		}

		expected := t.Version
		if err := t.Rate(score, review, s.now()); err != nil {
			return err
		}
		result, err = repo.UpdateTask(ctx, domain.UpdateTaskParams{Task: t, ExpectedVersion: expected})
		if err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}

		slog.InfoContext(ctx, "task rated", "task_id", t.ID, "rating", int(score))

		if result.HelperID != nil {
			return s.aggregates.OnRated(ctx, repo, result.ID, *result.HelperID, score)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// saveTransition persists a task whose status just changed, with the new history entry.
func (s *Service) saveTransition(ctx context.Context, repo Repository, t *domain.Task, expected int, from domain.TaskStatus) (*domain.Task, error) {
	change := t.LatestChange()
	updated, err := repo.UpdateTask(ctx, domain.UpdateTaskParams{
		Task:            t,
		ExpectedVersion: expected,
		AppendChange:    &change,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save task %s: %w", t.ID, err)
	}

	s.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(updated.Status))))
	slog.InfoContext(ctx, "task status changed",
		"task_id", updated.ID,
		"from", from,
		"to", updated.Status)

	return updated, nil
}

func (s *Service) findTask(ctx context.Context, repo Repository, id string) (*domain.Task, error) {
	if domain.ValidateID(id) != nil {
		return nil, domain.ErrTaskNotFound
	}
	return repo.FindTaskByID(ctx, id)
}

func (s *Service) findTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	result, err := s.repo.FindTasks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return result, nil
}

func (s *Service) listParams(in ListInput) (domain.ListTasksParams, error) {
	params := domain.ListTasksParams{
		Limit:  ClampPageSize(in.Limit, s.config.DefaultPageSize, s.config.MaxPageSize),
		Offset: max(in.Offset, 0),
	}
	if in.Status != "" {
		status, err := domain.NewTaskStatus(in.Status)
		if err != nil {
			return params, err
		}
		params.Statuses = []domain.TaskStatus{status}
	}
	return params, nil
}

// ClampPageSize applies the default for non-positive sizes and caps at maxSize.
func ClampPageSize(size, defaultSize, maxSize int) int {
	if size <= 0 {
		return defaultSize
	}
	return min(size, maxSize)
}

func validateLocations(locations ...*domain.Location) error {
	for _, l := range locations {
		if l == nil || l.Coordinates == nil {
			continue
		}
		if err := l.Coordinates.Validate(); err != nil {
			return err
		}
	}
	return nil
}
