package postgres

import (
	"context"
	"fmt"

	"github.com/rezkam/taskmarket/internal/domain"
)

// reconcileLockKey identifies the reconciliation advisory lock.
const reconcileLockKey int64 = 0x7461736b6d6b74 // "taskmkt"

// TryAcquireReconcileLock takes a transaction-scoped advisory lock without waiting.
func (s *Store) TryAcquireReconcileLock(ctx context.Context) (bool, error) {
	var locked bool
	if err := s.db.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, reconcileLockKey).Scan(&locked); err != nil {
		return false, fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	return locked, nil
}

// ComputeHelperAggregates recomputes every profile's totals from task rows.
func (s *Store) ComputeHelperAggregates(ctx context.Context) ([]domain.HelperAggregates, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			p.user_id::text,
			count(t.id) FILTER (WHERE t.status = 'completed'),
			COALESCE(SUM(COALESCE(t.final_price, t.estimated_price)) FILTER (WHERE t.status = 'completed'), 0)::float8,
			COALESCE(AVG(t.customer_rating), 0)::float8,
			count(t.customer_rating)
		FROM helper_profiles p
		LEFT JOIN tasks t ON t.helper_id = p.user_id
		GROUP BY p.user_id
		ORDER BY p.user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute helper aggregates: %w", err)
	}
	defer rows.Close()

	result := make([]domain.HelperAggregates, 0)
	for rows.Next() {
		var a domain.HelperAggregates
		if err := rows.Scan(&a.HelperID, &a.CompletedTasks, &a.EarningsTotal, &a.Rating, &a.TotalRatings); err != nil {
			return nil, fmt.Errorf("failed to scan helper aggregates: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate helper aggregates: %w", err)
	}
	return result, nil
}
