// Package cache is the Redis cache-aside layer in front of inventory listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type (
	Cache interface {
		// Get reports a hit and decodes into dest. A miss is (false, nil).
		Get(ctx context.Context, key string, dest interface{}) (bool, error)
		Set(ctx context.Context, key string, value interface{}) error
		Delete(ctx context.Context, key string) error
		DeletePattern(ctx context.Context, pattern string) error
		Stats() StatsSnapshot
		Close() error
	}

	redisCache struct {
		client *redis.Client
		prefix string
		ttl    time.Duration
		stats  counters
	}

	counters struct {
		hits, misses, sets, deletes, errors atomic.Uint64
	}

	StatsSnapshot struct {
		Hits      uint64  `json:"hits"`
		Misses    uint64  `json:"misses"`
		Sets      uint64  `json:"sets"`
		Deletes   uint64  `json:"deletes"`
		Errors    uint64  `json:"errors"`
		HitRate   float64 `json:"hit_rate"`
		TotalGets uint64  `json:"total_gets"`
	}
)

func NewCache(client *redis.Client, prefix string, ttl time.Duration) Cache {
	return &redisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.misses.Add(1)
			return false, nil
		}
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.stats.hits.Add(1)
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) error {
	return c.setWithTTL(ctx, key, value, c.ttl)
}

func (c *redisCache) setWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	c.stats.sets.Add(1)
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}

	c.stats.deletes.Add(1)
	return nil
}

// DeletePattern walks the keyspace with SCAN so large caches never block Redis.
func (c *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+pattern, scanBatch).Result()
		if err != nil {
			c.stats.errors.Add(1)
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.stats.errors.Add(1)
				return fmt.Errorf("cache delete error: %w", err)
			}
			c.stats.deletes.Add(uint64(len(keys)))
		}

		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

func (c *redisCache) Stats() StatsSnapshot {
	return c.stats.snapshot()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

func (s *counters) snapshot() StatsSnapshot {
	hits, misses := s.hits.Load(), s.misses.Load()
	total := hits + misses

	var rate float64
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}

	return StatsSnapshot{
		Hits:      hits,
		Misses:    misses,
		Sets:      s.sets.Load(),
		Deletes:   s.deletes.Load(),
		Errors:    s.errors.Load(),
		HitRate:   rate,
		TotalGets: total,
	}
}
