package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pmhealth/pm-health-backend/internal/tracking/health"
)

const (
	healthKeyPrefix = "pm:health:" // pm:health:{project_public_id}
	defaultTTL      = 5 * time.Minute
)

// HealthCache keeps computed health summaries in Redis so the read path does
// not rebuild a full project snapshot on every request. Entries are dropped
// whenever an activity commit or tracking snapshot changes the inputs.
type HealthCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHealthCache(client *redis.Client, ttl time.Duration) *HealthCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &HealthCache{client: client, ttl: ttl}
}

// Get returns the cached summary and whether it was present.
func (c *HealthCache) Get(ctx context.Context, projectID string) (*health.Summary, bool, error) {
	data, err := c.client.Get(ctx, c.key(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("health cache get: %w", err)
	}

	var s health.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("health cache decode: %w", err)
	}
	return &s, true, nil
}

// Set stores the summary under the cache TTL.
func (c *HealthCache) Set(ctx context.Context, projectID string, s health.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("health cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(projectID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("health cache set: %w", err)
	}
	return nil
}

// Invalidate drops the project's cached summary.
func (c *HealthCache) Invalidate(ctx context.Context, projectID string) error {
	if err := c.client.Del(ctx, c.key(projectID)).Err(); err != nil {
		return fmt.Errorf("health cache invalidate: %w", err)
	}
	return nil
}

func (c *HealthCache) key(projectID string) string {
	return healthKeyPrefix + projectID
}
