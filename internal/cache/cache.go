// Package cache memoises computed ledger results in redis. The ledger is
// append-only from this service's point of view, so entries simply expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/strategy-ledger/internal/config"
)

const keyPrefix = "ledger:"

// Cache stores JSON-encodable results under a key
type Cache interface {
	// Get decodes the cached value into dst. A miss is (false, nil).
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Key joins the parts of a cache key
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return keyPrefix + strings.Join(s, ":")
}

// RedisCache is a Cache backed by a redis client
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a new RedisCache
func NewRedisCache(redisClient *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, ttl: ttl}
}

// NewClient builds the redis client from config
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// A stale or foreign entry; drop it and recompute.
		c.redis.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, data, c.ttl).Err()
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, interface{}) error         { return nil }

// Lookup returns the cached value for key or computes and stores it. Cache
// failures are logged and never fail the lookup.
func Lookup[T any](ctx context.Context, c Cache, key string, compute func() (T, error)) (T, error) {
	var cached T
	if c == nil {
		return compute()
	}

	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[Cache] get %s failed: %v", key, err)
	} else if hit {
		return cached, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
	return value, nil
}
