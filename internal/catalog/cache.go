package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis-backed response cache. Failures degrade to cache
// misses; they are logged and never surface to the request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis and verifies the connection.
func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewCacheFromRedis(client, ttl), nil
}

// NewCacheFromRedis builds a cache on an existing Redis connection.
func NewCacheFromRedis(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache read failed", slog.String("error", err.Error()))
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, c.cacheKey(key), body, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache write failed", slog.String("error", err.Error()))
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) cacheKey(key string) string {
	return "catalog:" + key
}
