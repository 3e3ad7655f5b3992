package postgres

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rezkam/taskmarket/internal/domain"
)

// === Analytics Queries ===

// CountUsers counts users by role and helper state.
func (s *Store) CountUsers(ctx context.Context) (domain.UserCounts, error) {
	var counts domain.UserCounts
	err := s.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE role = 'customer'),
			count(*) FILTER (WHERE role = 'helper')
		FROM users`).Scan(&counts.Total, &counts.Customers, &counts.Helpers)
	if err != nil {
		return counts, fmt.Errorf("failed to count users: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE is_online),
			count(*) FILTER (WHERE NOT is_approved)
		FROM helper_profiles`).Scan(&counts.ActiveHelpers, &counts.PendingApprovals)
	if err != nil {
		return counts, fmt.Errorf("failed to count helpers: %w", err)
	}
	return counts, nil
}

// CountTasks counts tasks by status and category.
func (s *Store) CountTasks(ctx context.Context) (domain.TaskCounts, error) {
	counts := domain.TaskCounts{ByStatus: make(map[domain.TaskStatus]int)}

	rows, err := s.db.Query(ctx, `SELECT status, category, count(*) FROM tasks GROUP BY status, category`)
	if err != nil {
		return counts, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[domain.Category]int)
	for rows.Next() {
		var (
			status, category string
			n                int
		)
		if err := rows.Scan(&status, &category, &n); err != nil {
			return counts, fmt.Errorf("failed to scan task counts: %w", err)
		}
		counts.Total += n
		counts.ByStatus[domain.TaskStatus(status)] += n
		byCategory[domain.Category(category)] += n
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("failed to iterate task counts: %w", err)
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
func (s *Store) CompletedRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(COALESCE(final_price, estimated_price)), 0)::float8
		FROM tasks
		WHERE status = 'completed'`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}
