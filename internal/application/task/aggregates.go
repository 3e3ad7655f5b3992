package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
)

// AggregateUpdater folds task events into a helper's rating and earnings.
// Each fold is recorded in an idempotency ledger, so replays of the same event are no-ops.
// A helper without a profile is skipped rather than failing the task operation.
type AggregateUpdater struct {
	now func() time.Time
}

// NewAggregateUpdater creates an updater using the UTC wall clock.
func NewAggregateUpdater() *AggregateUpdater {
	return &AggregateUpdater{now: func() time.Time { return time.Now().UTC() }}
}

// OnTaskCompleted credits finalPrice and one completed task to the helper.
func (u *AggregateUpdater) OnTaskCompleted(ctx context.Context, repo AggregateRepository, taskID, helperID string, finalPrice float64) error {
	return u.apply(ctx, repo, domain.HelperEvent{
		TaskID:   taskID,
		HelperID: helperID,
		Kind:     domain.AggregateEventCompleted,
	}, func(p *domain.HelperProfile) {
		p.RecordCompletion(finalPrice, u.now())
	})
}

// OnRated folds score into the helper's running average.
func (u *AggregateUpdater) OnRated(ctx context.Context, repo AggregateRepository, taskID, helperID string, score domain.Score) error {
	return u.apply(ctx, repo, domain.HelperEvent{
		TaskID:   taskID,
		HelperID: helperID,
		Kind:     domain.AggregateEventRated,
	}, func(p *domain.HelperProfile) {
		p.RecordRating(score, u.now())
	})
}

func (u *AggregateUpdater) apply(ctx context.Context, repo AggregateRepository, event domain.HelperEvent, fold func(*domain.HelperProfile)) error {
	fresh, err := repo.RecordHelperEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to record helper event: %w", err)
	}
	if !fresh {
		slog.WarnContext(ctx, "helper aggregate event already applied, skipping",
			"task_id", event.TaskID,
			"helper_id", event.HelperID,
			"kind", event.Kind)
		return nil
	}

	profile, err := repo.FindHelperProfileForUpdate(ctx, event.HelperID)
	if errors.Is(err, domain.ErrHelperProfileNotFound) {
		slog.WarnContext(ctx, "helper profile missing, aggregate update skipped",
			"task_id", event.TaskID,
			"helper_id", event.HelperID,
			"kind", event.Kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load helper profile: %w", err)
	}

	fold(profile)

	if err := repo.SaveHelperAggregates(ctx, profile); err != nil {
		return fmt.Errorf("failed to save helper aggregates: %w", err)
	}

	slog.DebugContext(ctx, "helper aggregates updated",
		"helper_id", event.HelperID,
		"kind", event.Kind,
		"completed_tasks", profile.CompletedTasks,
		"rating", profile.Rating)
	return nil
}
