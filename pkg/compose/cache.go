package compose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/forgekit/pkg/cache"
	"github.com/dmitrymomot/forgekit/pkg/feature"
	"github.com/dmitrymomot/forgekit/pkg/manifest"
)

// Cache stores composition results. Get returns ErrCacheMiss for unknown keys.
// Cached results are shared between callers and must be treated as read-only.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, error)
	Set(ctx context.Context, key string, res *Result) error
}

// CacheKey derives a result key from everything that shapes the output: the
// target, the project name, the base manifest bytes and the selected features
// in selection order.
func CacheKey(target, projectName string, base []byte, features []feature.Feature) (string, error) {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00", target, projectName, len(base))
	h.Write(base)

	enc := json.NewEncoder(h)
	for _, f := range features {
		f.CreatedAt, f.UpdatedAt = time.Time{}, time.Time{}
		if err := enc.Encode(f); err != nil {
			return "", fmt.Errorf("cache key: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MemoryCache keeps results in a bounded in-process LRU.
type MemoryCache struct {
	lru *cache.LRU[string, *Result]
}

// NewMemoryCache panics if size is not positive. A zero ttl disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	var opts []cache.Option[string, *Result]
	if ttl > 0 {
		opts = append(opts, cache.WithTTL[string, *Result](ttl))
	}
	return &MemoryCache{lru: cache.NewLRU(size, opts...)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Result, error) {
	res, ok := c.lru.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return res, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, res *Result) error {
	c.lru.Set(key, res)
	return nil
}

// Len reports the number of cached results.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// RedisKeyPrefix namespaces composition results in Redis.
const RedisKeyPrefix = "forgekit:compose:"

// RedisCache stores JSON-encoded results in Redis with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache stores entries without expiry when ttl is zero.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Result, error) {
	data, err := c.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis cache get: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("redis cache decode: %w", err)
	}
	m, err := manifest.Parse(res.Manifest)
	if err != nil {
		return nil, fmt.Errorf("redis cache decode: %w", err)
	}
	res.Assembly.Manifest = m
	return &res, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res *Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("redis cache encode: %w", err)
	}
	if err := c.client.Set(ctx, RedisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set: %w", err)
	}
	return nil
}
