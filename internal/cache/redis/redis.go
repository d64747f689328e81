// Package redis implements the domain.Cache port on top of go-redis.
// Values cross the cache boundary as JSON; anything that fails to decode
// is treated as a miss so a corrupt entry can never surface to callers.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"eventrsvp/internal/domain"
)

type redisCache struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewCache returns a domain.Cache backed by the given Redis client.
func NewCache(client redis.UniversalClient, logger *slog.Logger) domain.Cache {
	return &redisCache{client: client, logger: logger}
}

// NewClient opens a Redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		// Backend failure: the cache is non-authoritative, fall through to
		// the store.
		c.logger.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WarnContext(ctx, "malformed cache payload, treating as miss", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value for %s: %w", key, err)
	}
	// No TTL: entries live until the next write invalidates them.
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// DeleteByPattern scans for keys matching the glob pattern and deletes
// them. SCAN is used instead of KEYS to avoid blocking the server.
func (c *redisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", pattern, err)
	}
	return c.Delete(ctx, keys...)
}
