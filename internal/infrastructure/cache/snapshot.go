// Package cache stores analytics snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/domain"
)

// Default configuration values.
const (
	DefaultTTL       = 60 * time.Second
	DefaultKeyPrefix = "taskmarket:"
)

const snapshotKey = "analytics:snapshot"

// Config holds Redis connection and cache settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// SnapshotCache is a Redis-backed admin.SnapshotCache. Values are JSON documents that expire after TTL.
type SnapshotCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

var _ admin.SnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache wraps an existing client. Applies defaults for zero ttl and empty prefix.
func NewSnapshotCache(client redis.Cmdable, prefix string, ttl time.Duration) *SnapshotCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache{
		client: client,
		key:    prefix + snapshotKey,
		ttl:    ttl,
	}
}

// NewRedisClient dials Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Get returns nil, nil on a miss.
func (c *SnapshotCache) Get(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot domain.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set stores the snapshot for the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, snapshot *domain.AnalyticsSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the stored snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}
