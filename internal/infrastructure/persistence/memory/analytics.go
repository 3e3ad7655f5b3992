package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/rezkam/taskmarket/internal/domain"
)

// CountUsers counts users by role and helper state.
func (s *Store) CountUsers(_ context.Context) (domain.UserCounts, error) {
	defer s.lock()()

	var counts domain.UserCounts
	for _, u := range s.data.users {
		counts.Total++
		switch u.Role {
		case domain.RoleCustomer:
			counts.Customers++
		case domain.RoleHelper:
			counts.Helpers++
		}
	}
	for _, p := range s.data.profiles {
		if p.IsOnline {
			counts.ActiveHelpers++
		}
		if !p.IsApproved {
			counts.PendingApprovals++
		}
	}
	return counts, nil
}

// CountTasks counts tasks by status and category.
func (s *Store) CountTasks(_ context.Context) (domain.TaskCounts, error) {
	defer s.lock()()

	counts := domain.TaskCounts{ByStatus: make(map[domain.TaskStatus]int)}
	byCategory := make(map[domain.Category]int)
	for _, t := range s.data.tasks {
		counts.Total++
		counts.ByStatus[t.Status]++
		byCategory[t.Category]++
	}
	counts.Pending = counts.ByStatus[domain.TaskStatusPending]
	counts.Completed = counts.ByStatus[domain.TaskStatusCompleted]
	counts.Cancelled = counts.ByStatus[domain.TaskStatusCancelled]

	counts.ByCategory = make([]domain.CategoryCount, 0, len(byCategory))
	for c, n := range byCategory {
		counts.ByCategory = append(counts.ByCategory, domain.CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(counts.ByCategory, func(a, b domain.CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return counts, nil
}

// CompletedRevenue sums finalPrice, falling back to estimatedPrice, over completed tasks.
func (s *Store) CompletedRevenue(_ context.Context) (float64, error) {
	defer s.lock()()

	var total float64
	for _, t := range s.data.tasks {
		if t.Status == domain.TaskStatusCompleted {
			total += taskRevenue(t)
		}
	}
	return total, nil
}

func taskRevenue(t *domain.Task) float64 {
	if t.FinalPrice != nil {
		return *t.FinalPrice
	}
	return t.EstimatedPrice
}
