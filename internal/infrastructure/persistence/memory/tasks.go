package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/rezkam/taskmarket/internal/domain"
)

// CreateTask stores a new task at version 1.
func (s *Store) CreateTask(_ context.Context, t *domain.Task) (*domain.Task, error) {
	defer s.lock()()

	stored := t.Clone()
	stored.Version = 1
	s.data.tasks[stored.ID] = stored
	return stored.Clone(), nil
}

// FindTaskByID returns a copy of the task.
func (s *Store) FindTaskByID(_ context.Context, id string) (*domain.Task, error) {
	defer s.lock()()

	t, ok := s.data.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// UpdateTask replaces the task when the stored version matches.
// History is append-only: only params.AppendChange is added to what is stored.
func (s *Store) UpdateTask(_ context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	defer s.lock()()

	stored, ok := s.data.tasks[params.Task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if stored.Version != params.ExpectedVersion {
		return nil, domain.ErrVersionConflict
	}

	updated := params.Task.Clone()
	updated.CustomerID = stored.CustomerID
	updated.CreatedAt = stored.CreatedAt
	updated.StatusHistory = slices.Clone(stored.StatusHistory)
	if params.AppendChange != nil {
		updated.StatusHistory = append(updated.StatusHistory, *params.AppendChange)
	}
	updated.Version = stored.Version + 1

	s.data.tasks[updated.ID] = updated
	return updated.Clone(), nil
}

// FindTasks filters, orders newest first and pages tasks.
func (s *Store) FindTasks(_ context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	defer s.lock()()

	matched := make([]*domain.Task, 0)
	for _, t := range s.data.tasks {
		if matchesTask(t, params) {
			matched = append(matched, t)
		}
	}
	slices.SortFunc(matched, newestFirst)

	total := len(matched)
	start := min(max(params.Offset, 0), total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}

	page := make([]*domain.Task, 0, end-start)
	for _, t := range matched[start:end] {
		page = append(page, t.Clone())
	}
	return &domain.PagedTasks{
		Tasks:      page,
		TotalCount: total,
		HasMore:    end < total,
	}, nil
}

func matchesTask(t *domain.Task, params domain.ListTasksParams) bool {
	if params.CustomerID != "" && t.CustomerID != params.CustomerID {
		return false
	}
	if params.HelperID != "" && !t.IsAssignedTo(params.HelperID) {
		return false
	}
	if len(params.Statuses) > 0 && !slices.Contains(params.Statuses, t.Status) {
		return false
	}
	if len(params.Categories) > 0 && !slices.Contains(params.Categories, t.Category) {
		return false
	}
	return true
}

func newestFirst(a, b *domain.Task) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
