package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/LdDl/campusnav/internal/config"
)

// RedisCache keeps routes in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects to Redis described by cfg and verifies connectivity.
func NewRedisCache(ctx context.Context, cfg config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "Can't reach redis at '%s'", cfg.Addr)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps existing client (cluster, sentinel or test instance).
func NewRedisCacheWithClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "Can't get '%s'", key)
	}
	return data, true, nil
}

// Set implements Cache. Zero ttl means no expiration.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "Can't set '%s'", key)
	}
	return nil
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)

// New returns RedisCache when address is configured and NullCache otherwise.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled() {
		return NewNullCache(), nil
	}
	return NewRedisCache(ctx, cfg)
}
