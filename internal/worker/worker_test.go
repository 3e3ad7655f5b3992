package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/reconcile"
)

type fakeReconciler struct {
	calls  atomic.Int32
	report *reconcile.Report
	err    error
	ran    chan struct{}
}

func (f *fakeReconciler) Run(ctx context.Context) (*reconcile.Report, error) {
	f.calls.Add(1)
	if f.ran != nil {
		select {
		case f.ran <- struct{}{}:
		default:
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("pass must be bounded")
	}
	return f.report, f.err
}

func TestNew_Defaults(t *testing.T) {
	w := New(&fakeReconciler{})

	assert.Equal(t, DefaultSchedule, w.schedule)
	assert.Equal(t, DefaultOperationTimeout, w.operationTimeout)
	assert.True(t, w.runOnStart)
}

func TestNew_Options(t *testing.T) {
	w := New(&fakeReconciler{},
		WithSchedule("0 3 * * *"),
		WithOperationTimeout(time.Minute),
		WithStartupJitter(time.Second),
		WithoutInitialRun(),
	)

	assert.Equal(t, "0 3 * * *", w.schedule)
	assert.Equal(t, time.Minute, w.operationTimeout)
	assert.Equal(t, time.Second, w.maxStartupJitter)
	assert.False(t, w.runOnStart)

	w = New(&fakeReconciler{}, WithSchedule(""), WithOperationTimeout(0))
	assert.Equal(t, DefaultSchedule, w.schedule, "empty schedule keeps the default")
	assert.Equal(t, DefaultOperationTimeout, w.operationTimeout)
}

func TestStart_RunsInitialPassAndStops(t *testing.T) {
	rec := &fakeReconciler{report: &reconcile.Report{Checked: 2}, ran: make(chan struct{}, 1)}
	w := New(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-rec.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("initial pass did not run")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestStart_InvalidSchedule(t *testing.T) {
	w := New(&fakeReconciler{}, WithSchedule("every tuesday"))

	err := w.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "every tuesday")
}

func TestRunOnce(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		rec := &fakeReconciler{report: &reconcile.Report{Checked: 3, Repaired: 1, Drifted: []reconcile.Drift{{HelperID: "h-1"}}}}

		report := New(rec).RunOnce(context.Background())

		require.NotNil(t, report)
		assert.Equal(t, 3, report.Checked)
		assert.Equal(t, 1, report.Repaired)
	})

	t.Run("skipped run", func(t *testing.T) {
		rec := &fakeReconciler{report: &reconcile.Report{Skipped: true}}

		report := New(rec).RunOnce(context.Background())

		require.NotNil(t, report)
		assert.True(t, report.Skipped)
	})

	t.Run("failure is logged not returned", func(t *testing.T) {
		rec := &fakeReconciler{err: errors.New("db down")}

		assert.Nil(t, New(rec).RunOnce(context.Background()))
		assert.Equal(t, int32(1), rec.calls.Load())
	})

	t.Run("cancelled context skips the pass", func(t *testing.T) {
		rec := &fakeReconciler{report: &reconcile.Report{}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Nil(t, New(rec).RunOnce(ctx))
		assert.Zero(t, rec.calls.Load())
	})
}
