// Package cache holds the optional Redis-backed stats snapshot cache. The
// service runs fine without it; callers treat a nil *StatsCache as disabled.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outlethub-api/internal/model"

	"github.com/redis/go-redis/v9"
)

// snapshotKeyPrefix is the Redis key prefix for outlet stats snapshots.
const snapshotKeyPrefix = "outlethub:stats:"

// StatsCache stores the most recent recomputed counters per outlet.
type StatsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStatsCache creates a stats cache on an existing Redis client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{redis: client, ttl: ttl}
}

// Set stores the snapshot for one outlet.
func (c *StatsCache) Set(ctx context.Context, outletID int64, stats model.OutletStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to serialize stats snapshot: %w", err)
	}

	key := fmt.Sprintf("%s%d", snapshotKeyPrefix, outletID)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store stats snapshot: %w", err)
	}
	return nil
}

// Get retrieves the snapshot for one outlet. A miss returns (nil, nil).
func (c *StatsCache) Get(ctx context.Context, outletID int64) (*model.OutletStats, error) {
	key := fmt.Sprintf("%s%d", snapshotKeyPrefix, outletID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	var stats model.OutletStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats snapshot: %w", err)
	}
	return &stats, nil
}
