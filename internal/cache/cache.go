package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridianlogistics/insight-service/internal/stats"
)

// Cache is a Redis-backed report cache. Every lookup is recorded on the
// injected stats collector so hit rates stay observable per process.
type Cache struct {
	client *redis.Client
	stats  *stats.Collector
	ttl    time.Duration
}

// New creates a cache with the given TTL for stored reports
func New(client *redis.Client, collector *stats.Collector, ttl time.Duration) *Cache {
	return &Cache{client: client, stats: collector, ttl: ttl}
}

// Get loads a cached report into dest. The boolean reports whether the key
// was present; an absent key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		c.stats.RecordMiss()
		return false, nil
	}
	if err != nil {
		c.stats.RecordMiss()
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.stats.RecordMiss()
		return false, fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}

	c.stats.RecordHit()
	return true, nil
}

// Set stores a report under the key with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for cache key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate removes a cached report
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache key %s: %w", key, err)
	}
	return nil
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("report:%s", key)
}
