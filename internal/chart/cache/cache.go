// Package cache keeps assembled chart snapshots in Redis, so the hot
// recommend path reads one key instead of four tables. Charts change
// rarely; a short TTL bounds staleness if an invalidation is ever lost.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
)

const (
	keyPrefix  = "sev:chart:snap:"
	defaultTTL = 5 * time.Minute
)

// SnapshotCache stores one JSON value per chart. Callers treat read and
// write failures as misses; the stores remain the source of truth.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a snapshot cache on the given Redis client. A
// non-positive ttl falls back to the five minute default.
func New(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or nil without error on a miss.
func (c *SnapshotCache) Get(ctx context.Context, chartID domain.ChartID) (*models.ChartSnapshot, error) {
	raw, err := c.client.Get(ctx, key(chartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot cache get: %w", err)
	}
	var snap models.ChartSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("snapshot cache decode: %w", err)
	}
	return &snap, nil
}

// Set stores the snapshot for the TTL window.
func (c *SnapshotCache) Set(ctx context.Context, snap *models.ChartSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(snap.ChartID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot cache set: %w", err)
	}
	return nil
}

// Invalidate drops the chart's snapshot after a mutation.
func (c *SnapshotCache) Invalidate(ctx context.Context, chartID domain.ChartID) error {
	if err := c.client.Del(ctx, key(chartID)).Err(); err != nil {
		return fmt.Errorf("snapshot cache invalidate: %w", err)
	}
	return nil
}

func key(chartID domain.ChartID) string {
	return keyPrefix + chartID.String()
}
