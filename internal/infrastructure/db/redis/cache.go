package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const insightsTTL = 24 * time.Hour

// InsightsCache stores generated financial insights so repeated reads within
// the freshness window skip the completion model.
type InsightsCache struct {
	client *redis.Client
}

// NewInsightsCache creates an InsightsCache wrapping the given Redis client.
func NewInsightsCache(client *redis.Client) *InsightsCache {
	return &InsightsCache{client: client}
}

// Get returns the cached payload for key and whether one exists.
func (c *InsightsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("insights cache get: %w", err)
	}
	return data, true, nil
}

// Set stores the payload under key for the insights TTL.
func (c *InsightsCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, insightsTTL).Err()
}
