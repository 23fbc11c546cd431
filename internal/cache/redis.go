package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"github.com/redis/go-redis/v9"
)

// Ensure RedisCache implements RepositoryCache
var _ RepositoryCache = (*RedisCache)(nil)

// RedisCache is a RepositoryCache shared between processes through Redis.
// Entries are written with SET EX so Redis enforces expiry.
type RedisCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *utils.Logger
}

// NewRedisCache creates a RedisCache on an existing client
func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration, logger *utils.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &RedisCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.WithComponent("cache"),
	}
}

// NewRedisCacheFromAddr connects to addr and verifies the connection
func NewRedisCacheFromAddr(addr string, ttl time.Duration, logger *utils.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return NewRedisCache(rdb, ttl, logger), nil
}

// Get returns the stored result if present and not expired
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.Result, bool) {
	val, err := c.rdb.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return nil, false
	}

	result, err := decodeResult(val)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return nil, false
	}
	return result, true
}

// Put stores value under key with the cache TTL
func (c *RedisCache) Put(ctx context.Context, key string, value *domain.Result) error {
	data, err := encodeResult(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, storageKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
