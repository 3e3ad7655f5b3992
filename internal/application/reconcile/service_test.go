package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/memory"
)

// seed stores a helper with one completed, rated task whose aggregates were never folded in.
func seed(t *testing.T, ctx context.Context, store *memory.Store) string {
	t.Helper()
	helperID := uuid.NewString()
	now := time.Now().UTC()
	_, err := store.CreateUser(ctx, &domain.User{ID: helperID, Email: "h@example.com", Role: domain.RoleHelper, IsActive: true},
		domain.NewHelperProfile(uuid.NewString(), helperID, now))
	require.NoError(t, err)

	title, err := domain.NewTitle("Clean flat")
	require.NoError(t, err)
	tk := domain.NewTask(uuid.NewString(), "customer", domain.CategoryCleaning, title, "two rooms", now, 250, now)
	require.NoError(t, tk.Accept(helperID, now))
	require.NoError(t, tk.Advance(domain.TaskStatusInProgress, "", now))
	require.NoError(t, tk.Advance(domain.TaskStatusCompleted, "", now))
	require.NoError(t, tk.Rate(4, "", now))
	_, err = store.CreateTask(ctx, tk)
	require.NoError(t, err)
	return helperID
}

func TestRun_ReportsDriftWithoutRepair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	helperID := seed(t, ctx, store)

	report, err := reconcile.NewService(store, false).Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 1, report.Checked)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, helperID, report.Drifted[0].HelperID)
	assert.Equal(t, 1, report.Drifted[0].Computed.CompletedTasks)
	assert.Equal(t, 250.0, report.Drifted[0].Computed.EarningsTotal)
	assert.Equal(t, 4.0, report.Drifted[0].Computed.Rating)
	assert.Zero(t, report.Repaired)

	profile, err := store.FindHelperProfile(ctx, helperID)
	require.NoError(t, err)
	assert.Zero(t, profile.CompletedTasks)
}

func TestRun_RepairsDrift(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	helperID := seed(t, ctx, store)
	svc := reconcile.NewService(store, true)

	report, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Repaired)

	profile, err := store.FindHelperProfile(ctx, helperID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CompletedTasks)
	assert.Equal(t, domain.Earnings{Total: 250, Pending: 250}, profile.Earnings)
	assert.Equal(t, 4.0, profile.Rating)
	assert.Equal(t, 1, profile.TotalRatings)

	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Drifted)
	assert.Zero(t, second.Repaired)
}
