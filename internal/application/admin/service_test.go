package admin_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/persistence/memory"
	"github.com/rezkam/taskmarket/internal/ptr"
)

type fakeCache struct {
	mu          sync.Mutex
	snapshot    *domain.AnalyticsSnapshot
	sets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) (*domain.AnalyticsSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot, nil
}

func (c *fakeCache) Set(_ context.Context, s *domain.AnalyticsSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.invalidated++
	return nil
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := admin.NewService(store, nil, task.Config{})

	h, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Hana", Email: " Hana@Example.com ", Role: "helper"})
	require.NoError(t, err)
	assert.Equal(t, "hana@example.com", h.Email)
	assert.True(t, h.IsActive)

	profile, err := store.FindHelperProfile(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsApproved)
	assert.False(t, profile.IsOnline)

	c, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Cal", Email: "cal@example.com", Role: "customer"})
	require.NoError(t, err)
	_, err = store.FindHelperProfile(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrHelperProfileNotFound)

	_, err = svc.CreateUser(ctx, admin.CreateUserInput{Name: "Dup", Email: "hana@example.com", Role: "customer"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.CreateUser(ctx, admin.CreateUserInput{Name: "X", Email: "x@example.com", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.CreateUser(ctx, admin.CreateUserInput{Name: " ", Email: "y@example.com", Role: "customer"})
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestListAndModerateUsers(t *testing.T) {
	ctx := context.Background()
	svc := admin.NewService(memory.NewStore(), nil, task.Config{})

	c, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Cal", Email: "cal@example.com", Role: "customer"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, admin.CreateUserInput{Name: "Hana", Email: "hana@example.com", Role: "helper"})
	require.NoError(t, err)

	helpers, err := svc.ListUsers(ctx, admin.ListUsersInput{Role: "helper"})
	require.NoError(t, err)
	assert.Len(t, helpers, 1)

	updated, err := svc.UpdateUserStatus(ctx, domain.UpdateUserStatusParams{UserID: c.ID, IsActive: ptr.To(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	inactive, err := svc.ListUsers(ctx, admin.ListUsersInput{IsActive: ptr.To(false)})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, c.ID, inactive[0].ID)

	require.NoError(t, svc.DeleteUser(ctx, c.ID))
	_, err = svc.GetUser(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "bad-id"), domain.ErrUserNotFound)
}

func TestApproveHelper(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := admin.NewService(store, nil, task.Config{})

	h, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Hana", Email: "hana@example.com", Role: "helper"})
	require.NoError(t, err)

	pending, err := svc.PendingHelpers(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, h.ID, pending[0].User.ID)

	profile, err := svc.ApproveHelper(ctx, pending[0].Profile.ID, true)
	require.NoError(t, err)
	assert.True(t, profile.IsApproved)

	user, err := svc.GetUser(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	pending, err = svc.PendingHelpers(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.ApproveHelper(ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, domain.ErrHelperProfileNotFound)
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := &fakeCache{}
	svc := admin.NewService(store, cache, task.Config{})
	tasks := task.NewService(store, task.Config{})

	customer, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Cal", Email: "cal@example.com", Role: "customer"})
	require.NoError(t, err)
	h, err := svc.CreateUser(ctx, admin.CreateUserInput{Name: "Hana", Email: "hana@example.com", Role: "helper"})
	require.NoError(t, err)
	pending, err := svc.PendingHelpers(ctx)
	require.NoError(t, err)
	_, err = svc.ApproveHelper(ctx, pending[0].Profile.ID, true)
	require.NoError(t, err)
	_, err = store.SetHelperOnline(ctx, h.ID, true)
	require.NoError(t, err)

	create := func(category string) *domain.Task {
		created, _, err := tasks.CreateTask(ctx, task.CreateTaskInput{
			CustomerID: customer.ID, Category: category, Title: "Job", Description: "desc", ScheduledTime: time.Now(),
		})
		require.NoError(t, err)
		return created
	}
	done := create("repair")
	_, err = tasks.AcceptTask(ctx, h.ID, done.ID)
	require.NoError(t, err)
	_, err = tasks.UpdateTaskStatus(ctx, h.ID, done.ID, "in_progress", "")
	require.NoError(t, err)
	_, err = tasks.UpdateTaskStatus(ctx, h.ID, done.ID, "completed", "")
	require.NoError(t, err)

	create("repair")
	cancelled := create("cleaning")
	_, err = tasks.CancelTask(ctx, customer.ID, cancelled.ID, "")
	require.NoError(t, err)

	snapshot, err := svc.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.UserCounts{Total: 2, Customers: 1, Helpers: 1, ActiveHelpers: 1}, snapshot.Users)
	assert.Equal(t, 3, snapshot.Tasks.Total)
	assert.Equal(t, 1, snapshot.Tasks.Pending)
	assert.Equal(t, 1, snapshot.Tasks.Completed)
	assert.Equal(t, 1, snapshot.Tasks.Cancelled)
	require.NotEmpty(t, snapshot.Tasks.ByCategory)
	assert.Equal(t, domain.CategoryCount{Category: domain.CategoryRepair, Count: 2}, snapshot.Tasks.ByCategory[0])
	assert.Equal(t, domain.Revenue{Total: 300, Average: 300, CompletedTasks: 1}, snapshot.Revenue)
	assert.Len(t, snapshot.RecentTasks, 3)

	again, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Same(t, snapshot, again, "second read is served from cache")
	assert.Equal(t, 1, cache.sets)

	_, err = svc.CreateUser(ctx, admin.CreateUserInput{Name: "New", Email: "new@example.com", Role: "customer"})
	require.NoError(t, err)
	fresh, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Users.Total)
}

func TestListTasks_Filters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := admin.NewService(store, nil, task.Config{})

	_, err := svc.ListTasks(ctx, admin.ListTasksInput{Category: "space"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = svc.ListTasks(ctx, admin.ListTasksInput{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

	page, err := svc.ListTasks(ctx, admin.ListTasksInput{Status: "pending", Category: "moving"})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
}
