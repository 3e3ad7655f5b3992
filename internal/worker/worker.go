// Package worker runs helper aggregate reconciliation on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rezkam/taskmarket/internal/application/reconcile"
)

// Defaults applied when options are not given.
const (
	DefaultSchedule         = "@every 1h"
	DefaultOperationTimeout = 5 * time.Minute
)

// Reconciler performs one reconciliation pass.
type Reconciler interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

// Worker schedules reconciliation passes. Passes never overlap: a tick that fires
// while the previous pass is still running is skipped.
type Worker struct {
	reconciler       Reconciler
	schedule         string
	operationTimeout time.Duration
	maxStartupJitter time.Duration
	runOnStart       bool

	cron *cron.Cron
	wg   sync.WaitGroup
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithSchedule sets the cron spec, e.g. "@every 30m" or "0 3 * * *".
func WithSchedule(spec string) Option {
	return func(w *Worker) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// WithOperationTimeout bounds each pass.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.operationTimeout = d
		}
	}
}

// WithStartupJitter delays the initial pass by a random amount up to d,
// so replicas restarted together do not contend for the reconcile lock.
func WithStartupJitter(d time.Duration) Option {
	return func(w *Worker) {
		w.maxStartupJitter = d
	}
}

// WithoutInitialRun disables the pass that normally runs at startup.
func WithoutInitialRun() Option {
	return func(w *Worker) {
		w.runOnStart = false
	}
}

// New creates a Worker. The schedule is parsed in Start.
func New(reconciler Reconciler, opts ...Option) *Worker {
	w := &Worker{
		reconciler:       reconciler,
		schedule:         DefaultSchedule,
		operationTimeout: DefaultOperationTimeout,
		runOnStart:       true,
	}

	for _, opt := range opts {
		opt(w)
	}

	w.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	return w
}

// Start registers the job and blocks until ctx is cancelled, then waits for a running pass to finish.
// It returns an error only for an invalid schedule.
func (w *Worker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", w.schedule, err)
	}

	slog.InfoContext(ctx, "reconcile worker starting",
		"schedule", w.schedule,
		"operation_timeout", w.operationTimeout)

	if w.runOnStart {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if !w.sleepJitter(ctx) {
				return
			}
			w.RunOnce(ctx)
		}()
	}

	w.cron.Start()

	<-ctx.Done()
	slog.InfoContext(ctx, "reconcile worker stopping")

	<-w.cron.Stop().Done()
	w.wg.Wait()
	return nil
}

// RunOnce performs a single bounded pass and logs its outcome.
func (w *Worker) RunOnce(ctx context.Context) *reconcile.Report {
	if ctx.Err() != nil {
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, w.operationTimeout)
	defer cancel()

	start := time.Now().UTC()
	report, err := w.reconciler.Run(runCtx)
	if err != nil {
		slog.ErrorContext(ctx, "reconciliation failed", "error", err, "duration", time.Since(start))
		return nil
	}

	if report.Skipped {
		slog.InfoContext(ctx, "reconciliation skipped, another run holds the lock")
		return report
	}

	for _, d := range report.Drifted {
		slog.WarnContext(ctx, "helper aggregates drifted",
			"helper_id", d.HelperID,
			"stored_completed", d.Stored.CompletedTasks,
			"computed_completed", d.Computed.CompletedTasks,
			"stored_total_ratings", d.Stored.TotalRatings,
			"computed_total_ratings", d.Computed.TotalRatings)
	}

	slog.InfoContext(ctx, "reconciliation complete",
		"checked", report.Checked,
		"drifted", len(report.Drifted),
		"repaired", report.Repaired,
		"duration", time.Since(start))
	return report
}

func (w *Worker) sleepJitter(ctx context.Context) bool {
	if w.maxStartupJitter <= 0 {
		return true
	}
	timer := time.NewTimer(rand.N(w.maxStartupJitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
