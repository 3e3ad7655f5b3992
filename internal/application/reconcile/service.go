// Package reconcile compares stored helper aggregates with totals recomputed from tasks.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
)

// ratingTolerance absorbs float drift from the running average.
const ratingTolerance = 1e-6

// Drift is one helper whose stored aggregates differ from the recomputed ones.
type Drift struct {
	HelperID string
	Stored   domain.HelperAggregates
	Computed domain.HelperAggregates
}

// Report summarizes one run.
type Report struct {
	Skipped  bool // another run held the lock
	Checked  int
	Drifted  []Drift
	Repaired int
}

// Service recomputes helper aggregates and optionally repairs drift.
type Service struct {
	repo   Repository
	repair bool
	now    func() time.Time
}

// NewService creates a reconciler. With repair set, drifted profiles are overwritten.
func NewService(repo Repository, repair bool) *Service {
	return &Service{
		repo:   repo,
		repair: repair,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run performs one reconciliation pass in a single transaction.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	err := s.repo.AtomicReconcile(ctx, func(repo Repository) error {
		locked, err := repo.TryAcquireReconcileLock(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire reconcile lock: %w", err)
		}
		if !locked {
			report.Skipped = true
			return nil
		}

		computed, err := repo.ComputeHelperAggregates(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute helper aggregates: %w", err)
		}

		for _, want := range computed {
			profile, err := repo.FindHelperProfileForUpdate(ctx, want.HelperID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to load helper profile: %w", err)
			}
			report.Checked++

			stored := storedAggregates(profile)
			if matches(stored, want) {
				continue
			}

			report.Drifted = append(report.Drifted, Drift{HelperID: want.HelperID, Stored: stored, Computed: want})
			slog.WarnContext(ctx, "helper aggregates drifted",
				"helper_id", want.HelperID,
				"stored_completed", stored.CompletedTasks,
				"computed_completed", want.CompletedTasks,
				"stored_earnings", stored.EarningsTotal,
				"computed_earnings", want.EarningsTotal,
				"stored_rating", stored.Rating,
				"computed_rating", want.Rating)

			if !s.repair {
				continue
			}

			delta := want.EarningsTotal - profile.Earnings.Total
			profile.CompletedTasks = want.CompletedTasks
			profile.Earnings.Total = want.EarningsTotal
			profile.Earnings.Pending = math.Max(0, profile.Earnings.Pending+delta)
			profile.Rating = want.Rating
			profile.TotalRatings = want.TotalRatings
			profile.UpdatedAt = s.now()

			if err := repo.SaveHelperAggregates(ctx, profile); err != nil {
				return fmt.Errorf("failed to repair helper %s: %w", want.HelperID, err)
			}
			report.Repaired++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "reconciliation finished",
		"skipped", report.Skipped,
		"checked", report.Checked,
		"drifted", len(report.Drifted),
		"repaired", report.Repaired)
	return report, nil
}

func storedAggregates(p *domain.HelperProfile) domain.HelperAggregates {
	return domain.HelperAggregates{
		HelperID:       p.UserID,
		CompletedTasks: p.CompletedTasks,
		EarningsTotal:  p.Earnings.Total,
		Rating:         p.Rating,
		TotalRatings:   p.TotalRatings,
	}
}

func matches(a, b domain.HelperAggregates) bool {
	return a.CompletedTasks == b.CompletedTasks &&
		a.TotalRatings == b.TotalRatings &&
		math.Abs(a.EarningsTotal-b.EarningsTotal) < ratingTolerance &&
		math.Abs(a.Rating-b.Rating) < ratingTolerance
}
