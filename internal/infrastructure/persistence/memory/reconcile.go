package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/rezkam/taskmarket/internal/domain"
)

// TryAcquireReconcileLock always succeeds: a transaction already holds the store lock.
func (s *Store) TryAcquireReconcileLock(_ context.Context) (bool, error) {
	return true, nil
}

// ComputeHelperAggregates recomputes every profile's totals from task history.
func (s *Store) ComputeHelperAggregates(_ context.Context) ([]domain.HelperAggregates, error) {
	defer s.lock()()

	byHelper := make(map[string]*domain.HelperAggregates, len(s.data.profiles))
	ratingSums := make(map[string]int, len(s.data.profiles))
	for userID := range s.data.profiles {
		byHelper[userID] = &domain.HelperAggregates{HelperID: userID}
	}

	for _, t := range s.data.tasks {
		if t.HelperID == nil {
			continue
		}
		agg, ok := byHelper[*t.HelperID]
		if !ok {
			continue
		}
		if t.Status == domain.TaskStatusCompleted {
			agg.CompletedTasks++
			agg.EarningsTotal += taskRevenue(t)
		}
		if t.CustomerRating != nil {
			agg.TotalRatings++
			ratingSums[agg.HelperID] += int(t.CustomerRating.Rating)
		}
	}

	result := make([]domain.HelperAggregates, 0, len(byHelper))
	for id, agg := range byHelper {
		if agg.TotalRatings > 0 {
			agg.Rating = float64(ratingSums[id]) / float64(agg.TotalRatings)
		}
		result = append(result, *agg)
	}
	slices.SortFunc(result, func(a, b domain.HelperAggregates) int {
		return cmp.Compare(a.HelperID, b.HelperID)
	})
	return result, nil
}
