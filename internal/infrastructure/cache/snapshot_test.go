package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/domain"
)

func TestNewSnapshotCache_Defaults(t *testing.T) {
	c := NewSnapshotCache(nil, "", 0)
	assert.Equal(t, DefaultKeyPrefix+snapshotKey, c.key)
	assert.Equal(t, DefaultTTL, c.ttl)

	c = NewSnapshotCache(nil, "test:", time.Minute)
	assert.Equal(t, "test:analytics:snapshot", c.key)
	assert.Equal(t, time.Minute, c.ttl)
}

// setupRedis connects to MARKET_TEST_REDIS_ADDR and skips when it is unset or unreachable.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("MARKET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MARKET_TEST_REDIS_ADDR not set")
	}

	client, err := NewRedisClient(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	c := NewSnapshotCache(client, "test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() { _ = c.Invalidate(ctx) })

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache is a miss")

	snapshot := &domain.AnalyticsSnapshot{
		Users: domain.UserCounts{Total: 3, Customers: 2, Helpers: 1},
		Tasks: domain.TaskCounts{
			Total:      4,
			ByStatus:   map[domain.TaskStatus]int{domain.TaskStatusPending: 4},
			ByCategory: []domain.CategoryCount{{Category: domain.CategoryRepair, Count: 4}},
		},
		Revenue:     domain.Revenue{Total: 300, Average: 300, CompletedTasks: 1},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, snapshot))

	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot.Users, got.Users)
	assert.Equal(t, 4, got.Tasks.ByStatus[domain.TaskStatusPending])
	assert.Equal(t, snapshot.Revenue, got.Revenue)
	assert.True(t, snapshot.GeneratedAt.Equal(got.GeneratedAt))

	ttl, err := client.TTL(ctx, c.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_CorruptValue(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	c := NewSnapshotCache(client, "test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() { _ = c.Invalidate(ctx) })

	require.NoError(t, client.Set(ctx, c.key, "not json", time.Minute).Err())

	_, err := c.Get(ctx)
	assert.ErrorContains(t, err, "failed to decode snapshot")
}
