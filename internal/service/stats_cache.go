package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "ticket_stats:"

// StatsCache keeps per-organization stats snapshots in Redis for a short
// TTL. Mutating ticket operations invalidate the organization's entry. All
// methods are best-effort and nil-safe: without a Redis client every lookup
// is a miss and writes are no-ops, so the service runs fine without Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache constructs the cache wrapper.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot for the organization, if any.
func (c *StatsCache) Get(ctx context.Context, organizationID string) (*TicketStats, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, statsKeyPrefix+organizationID).Bytes()
	if err != nil {
		return nil, false
	}
	var stats TicketStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set stores the snapshot under the organization's key.
func (c *StatsCache) Set(ctx context.Context, organizationID string, stats *TicketStats) {
	if c == nil || c.client == nil || stats == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, statsKeyPrefix+organizationID, payload, c.ttl).Err()
}

// Invalidate drops the organization's cached snapshot.
func (c *StatsCache) Invalidate(ctx context.Context, organizationID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, statsKeyPrefix+organizationID).Err()
}
