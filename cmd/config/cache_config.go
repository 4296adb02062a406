package config

import (
	"FreshTrack/internal/utils"
	"FreshTrack/pkg/cache"
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "freshtrack:"

// ConnectCache returns the Redis listing cache, or a no-op cache when
// REDIS_ADDR is unset or unreachable.
func ConnectCache() cache.Cache {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		log.Info("REDIS_ADDR not set, listing cache disabled")
		return cache.NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("redis at %s unreachable, listing cache disabled: %v", addr, err)
		_ = client.Close()
		return cache.NewNoopCache()
	}

	ttl := time.Duration(utils.GetConfigInt("CACHE_TTL_SECONDS", 300)) * time.Second
	return cache.NewCache(client, cachePrefix, ttl)
}
