package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/config"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/taskmarket/internal/ptr"
)

// setupStore connects to MARKET_TEST_DB_DSN, migrates and empties every table.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	cfg, err := config.LoadTestConfig()
	if err != nil {
		t.Skipf("Failed to load test config: %v (set MARKET_TEST_DB_DSN to run integration tests)", err)
	}

	ctx := context.Background()
	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{DSN: cfg.DSN})
	require.NoError(t, err)

	_, err = store.Pool().Exec(ctx,
		"TRUNCATE TABLE helper_aggregate_events, task_status_history, tasks, helper_profiles, users CASCADE")
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *postgres.Store, role domain.Role) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	var profile *domain.HelperProfile
	if role == domain.RoleHelper {
		profile = domain.NewHelperProfile(uuid.NewString(), id, now)
		profile.Categories = []domain.Category{domain.CategoryMoving}
	}
	_, err := store.CreateUser(context.Background(), &domain.User{
		ID: id, Name: "User", Email: id + "@example.com", Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}, profile)
	require.NoError(t, err)
	return id
}

func readyHelper(t *testing.T, store *postgres.Store) string {
	t.Helper()
	ctx := context.Background()
	id := createUser(t, store, domain.RoleHelper)
	profile, err := store.FindHelperProfile(ctx, id)
	require.NoError(t, err)
	_, err = store.SetHelperApproval(ctx, profile.ID, true)
	require.NoError(t, err)
	_, err = store.SetHelperOnline(ctx, id, true)
	require.NoError(t, err)
	return id
}

func createTask(t *testing.T, svc *task.Service, customerID string) *domain.Task {
	t.Helper()
	created, _, err := svc.CreateTask(context.Background(), task.CreateTaskInput{
		CustomerID:     customerID,
		Category:       "delivery",
		Title:          "Parcel",
		Description:    "Small box",
		ScheduledTime:  time.Now().UTC().Add(time.Hour),
		PickupLocation: &domain.Location{Address: "A", Coordinates: &domain.Coordinates{Latitude: 0, Longitude: 0}},
		DropLocation:   &domain.Location{Address: "B", Coordinates: &domain.Coordinates{Latitude: 0, Longitude: 1}},
	})
	require.NoError(t, err)
	return created
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := &domain.User{ID: uuid.NewString(), Name: "A", Email: "dup@example.com", Role: domain.RoleCustomer, IsActive: true, CreatedAt: now, UpdatedAt: now}
	_, err := store.CreateUser(ctx, user, nil)
	require.NoError(t, err)

	user.ID = uuid.NewString()
	_, err = store.CreateUser(ctx, user, nil)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestTaskRoundTrip(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	customer := createUser(t, store, domain.RoleCustomer)

	created := createTask(t, svc, customer)
	assert.Equal(t, 930.0, created.EstimatedPrice)

	got, err := store.FindTaskByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, 1, got.Version)
	require.NotNil(t, got.DropLocation)
	require.NotNil(t, got.DropLocation.Coordinates)
	assert.Equal(t, 1.0, got.DropLocation.Coordinates.Longitude)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())

	_, err = store.FindTaskByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTask_StaleVersion(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	created := createTask(t, svc, createUser(t, store, domain.RoleCustomer))
	ctx := context.Background()

	stale := created.Clone()
	stale.Title = "renamed"
	_, err := store.UpdateTask(ctx, domain.UpdateTaskParams{Task: stale, ExpectedVersion: created.Version + 1})

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestAcceptTask_ConcurrentHelpersOneWins(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	created := createTask(t, svc, createUser(t, store, domain.RoleCustomer))

	helpers := []string{readyHelper(t, store), readyHelper(t, store), readyHelper(t, store)}

	var wg sync.WaitGroup
	errs := make([]error, len(helpers))
	for i, h := range helpers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.AcceptTask(context.Background(), h, created.ID)
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, wins)

	got, err := store.FindTaskByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAccepted, got.Status)
	assert.Equal(t, 2, got.Version)
	assert.Len(t, got.StatusHistory, 2)
}

func TestLifecycle_UpdatesHelperAggregatesOnce(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	ctx := context.Background()
	customer := createUser(t, store, domain.RoleCustomer)
	helperID := readyHelper(t, store)
	created := createTask(t, svc, customer)

	_, err := svc.AcceptTask(ctx, helperID, created.ID)
	require.NoError(t, err)
	_, err = svc.UpdateTaskStatus(ctx, helperID, created.ID, "in_progress", "")
	require.NoError(t, err)
	done, err := svc.UpdateTaskStatus(ctx, helperID, created.ID, "completed", "delivered")
	require.NoError(t, err)
	require.NotNil(t, done.FinalPrice)

	_, err = svc.RateTask(ctx, customer, created.ID, 4, "fine")
	require.NoError(t, err)

	profile, err := store.FindHelperProfile(ctx, helperID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CompletedTasks)
	assert.Equal(t, 930.0, profile.Earnings.Total)
	assert.Equal(t, 4.0, profile.Rating)
	assert.Equal(t, 1, profile.TotalRatings)

	// The ledger rejects a second fold of the same event.
	first, err := store.RecordHelperEvent(ctx, domain.HelperEvent{TaskID: created.ID, HelperID: helperID, Kind: domain.AggregateEventCompleted})
	require.NoError(t, err)
	assert.False(t, first)
}

func TestFindTasks_FiltersAndPages(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	ctx := context.Background()
	customer := createUser(t, store, domain.RoleCustomer)

	var ids []string
	for range 3 {
		ids = append(ids, createTask(t, svc, customer).ID)
	}
	_, err := svc.CancelTask(ctx, customer, ids[0], "")
	require.NoError(t, err)

	page, err := store.FindTasks(ctx, domain.ListTasksParams{CustomerID: customer, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Tasks, 2)
	assert.Equal(t, ids[2], page.Tasks[0].ID, "newest first")

	pending, err := store.FindTasks(ctx, domain.ListTasksParams{
		CustomerID: customer,
		Statuses:   []domain.TaskStatus{domain.TaskStatusPending},
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pending.TotalCount)

	none, err := store.FindTasks(ctx, domain.ListTasksParams{Categories: []domain.Category{domain.CategoryRepair}, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, none.TotalCount)
	assert.Empty(t, none.Tasks)
}

func TestAnalytics(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	ctx := context.Background()
	customer := createUser(t, store, domain.RoleCustomer)
	createUser(t, store, domain.RoleHelper)
	createTask(t, svc, customer)

	snapshot, err := admin.NewService(store, nil, task.Config{}).Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.Users.Total)
	assert.Equal(t, 1, snapshot.Users.Helpers)
	assert.Equal(t, 1, snapshot.Users.PendingApprovals)
	assert.Equal(t, 1, snapshot.Tasks.Total)
	assert.Equal(t, 1, snapshot.Tasks.Pending)
	assert.Zero(t, snapshot.Revenue.Total)
}

func TestReconcile_RepairsDrift(t *testing.T) {
	store := setupStore(t)
	svc := task.NewService(store, task.Config{})
	ctx := context.Background()
	customer := createUser(t, store, domain.RoleCustomer)
	helperID := readyHelper(t, store)
	created := createTask(t, svc, customer)

	_, err := svc.AcceptTask(ctx, helperID, created.ID)
	require.NoError(t, err)
	_, err = svc.UpdateTaskStatus(ctx, helperID, created.ID, "in_progress", "")
	require.NoError(t, err)
	_, err = svc.UpdateTaskStatus(ctx, helperID, created.ID, "completed", "")
	require.NoError(t, err)

	profile, err := store.FindHelperProfile(ctx, helperID)
	require.NoError(t, err)
	profile.CompletedTasks = 7
	profile.Earnings.Total = 1
	require.NoError(t, store.SaveHelperAggregates(ctx, profile))

	report, err := reconcile.NewService(store, true).Run(ctx)
	require.NoError(t, err)
	require.False(t, report.Skipped)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, 1, report.Repaired)

	repaired, err := store.FindHelperProfile(ctx, helperID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired.CompletedTasks)
	assert.Equal(t, 930.0, repaired.Earnings.Total)

	report, err = reconcile.NewService(store, false).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Drifted)
}

func TestUpdateUserStatus(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	id := createUser(t, store, domain.RoleCustomer)

	user, err := store.UpdateUserStatus(ctx, domain.UpdateUserStatusParams{UserID: id, IsActive: ptr.To(false)})
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.False(t, user.IsVerified)

	_, err = store.UpdateUserStatus(ctx, domain.UpdateUserStatusParams{UserID: uuid.NewString(), IsVerified: ptr.To(true)})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
