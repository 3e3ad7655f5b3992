package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
)

func newTask(t *testing.T, id string, created time.Time) *domain.Task {
	t.Helper()
	title, err := domain.NewTitle("Deliver parcel")
	require.NoError(t, err)
	return domain.NewTask(id, "customer-1", domain.CategoryDelivery, title, "Small box", created, 150, created)
}

func TestStore_UpdateTaskChecksVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	created, err := store.CreateTask(ctx, newTask(t, "t1", now))
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	require.NoError(t, created.Accept("helper-1", now))
	change := created.LatestChange()
	updated, err := store.UpdateTask(ctx, domain.UpdateTaskParams{Task: created, ExpectedVersion: 1, AppendChange: &change})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.StatusHistory, 2)

	_, err = store.UpdateTask(ctx, domain.UpdateTaskParams{Task: created, ExpectedVersion: 1})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	_, err = store.UpdateTask(ctx, domain.UpdateTaskParams{Task: newTask(t, "missing", now), ExpectedVersion: 1})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_HistoryIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	created, err := store.CreateTask(ctx, newTask(t, "t1", now))
	require.NoError(t, err)

	created.StatusHistory = nil
	updated, err := store.UpdateTask(ctx, domain.UpdateTaskParams{Task: created, ExpectedVersion: 1})
	require.NoError(t, err)
	assert.Len(t, updated.StatusHistory, 1)
}

func TestStore_FindTasksOrdersAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := store.CreateTask(ctx, newTask(t, id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := store.FindTasks(ctx, domain.ListTasksParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 2)
	assert.Equal(t, "e", page.Tasks[0].ID)
	assert.Equal(t, "d", page.Tasks[1].ID)
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasMore)

	last, err := store.FindTasks(ctx, domain.ListTasksParams{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, last.Tasks, 1)
	assert.Equal(t, "a", last.Tasks[0].ID)
	assert.False(t, last.HasMore)

	none, err := store.FindTasks(ctx, domain.ListTasksParams{Statuses: []domain.TaskStatus{domain.TaskStatusCompleted}})
	require.NoError(t, err)
	assert.Empty(t, none.Tasks)
	assert.Zero(t, none.TotalCount)
}

func TestStore_AtomicRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.Atomic(ctx, func(repo task.Repository) error {
		if _, err := repo.CreateTask(ctx, newTask(t, "t1", time.Now().UTC())); err != nil {
			return err
		}
		fresh, err := repo.RecordHelperEvent(ctx, domain.HelperEvent{TaskID: "t1", Kind: domain.AggregateEventCompleted})
		require.NoError(t, err)
		assert.True(t, fresh)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindTaskByID(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	fresh, err := store.RecordHelperEvent(ctx, domain.HelperEvent{TaskID: "t1", Kind: domain.AggregateEventCompleted})
	require.NoError(t, err)
	assert.True(t, fresh, "ledger entry must not survive the rollback")
}

func TestStore_RecordHelperEventIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	event := domain.HelperEvent{TaskID: "t1", HelperID: "h1", Kind: domain.AggregateEventRated}

	fresh, err := store.RecordHelperEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.RecordHelperEvent(ctx, event)
	require.NoError(t, err)
	assert.False(t, fresh)

	event.Kind = domain.AggregateEventCompleted
	fresh, err = store.RecordHelperEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestStore_CreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	_, err := store.CreateUser(ctx, &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleHelper, CreatedAt: now},
		domain.NewHelperProfile("p1", "u1", now))
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, &domain.User{ID: "u2", Email: "a@example.com", Role: domain.RoleCustomer}, nil)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	require.NoError(t, store.DeleteUser(ctx, "u1"))
	_, err = store.FindHelperProfile(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrHelperProfileNotFound)
}
