package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is a byte cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore keeps cached busy lists in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// CachedSource serves busy intervals of an inner source from a Store. Ranges
// are widened to whole UTC days so that nearby queries share entries.
type CachedSource struct {
	inner  Source
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps src with a read-through cache.
func NewCachedSource(src Source, store Store, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		inner:  src,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedSource) Name() string {
	return c.inner.Name()
}

func (c *CachedSource) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	dayFrom, dayTo := dayAligned(from, to)
	key := cacheKey(c.inner.Name(), dayFrom, dayTo)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var busy []availability.Interval
		if jerr := json.Unmarshal(raw, &busy); jerr == nil {
			return clip(busy, from, to), nil
		}
		c.logger.Warn("Corrupt cache entry", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("Failed to read busy cache", zap.String("key", key), zap.Error(err))
	}

	busy, err := c.inner.Busy(ctx, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(busy); err == nil {
		if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("Failed to write busy cache", zap.String("key", key), zap.Error(err))
		}
	}

	return clip(busy, from, to), nil
}

func dayAligned(from, to time.Time) (time.Time, time.Time) {
	lo := from.UTC().Truncate(24 * time.Hour)
	hi := to.UTC().Truncate(24 * time.Hour)
	if hi.Before(to) {
		hi = hi.Add(24 * time.Hour)
	}
	return lo, hi
}

func cacheKey(source string, from, to time.Time) string {
	return fmt.Sprintf("busy:%s:%d:%d", source, from.Unix(), to.Unix())
}
