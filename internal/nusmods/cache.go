package nusmods

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by ModuleCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ModuleCache stores raw module payloads between requests. Module data
// changes rarely within an academic year, so a short TTL is plenty.
type ModuleCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a ModuleCache backed by Redis with the given TTL.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) ModuleCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte) error {
	return c.rdb.Set(ctx, key, val, c.ttl).Err()
}

func cacheKey(acadYear, code string) string {
	return "nusmods:" + acadYear + ":" + code
}
