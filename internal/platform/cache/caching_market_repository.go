// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/feature/chart/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Entries expire after a TTL derived from the kline interval.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	namespace string
	logger    *zap.Logger
}

var (
	_ usecase.MarketRepository = (*CachingMarketRepository)(nil)
	_ usecase.CacheInvalidator = (*CachingMarketRepository)(nil)
)

// NewCachingMarketRepository decorates inner with Redis caching.
// If namespace is empty, it uses "klines". A nil rdb disables caching.
func NewCachingMarketRepository(rdb *redis.Client, inner usecase.MarketRepository, namespace string, logger *zap.Logger) *CachingMarketRepository {
	if namespace == "" {
		namespace = "klines"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		namespace: namespace,
		logger:    logger,
	}
}

// GetKlines returns cached rows when present, otherwise fetches and stores them.
// Cache failures never fail the request.
func (c *CachingMarketRepository) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.RawCandle, error) {
	if c.rdb == nil {
		return c.inner.GetKlines(ctx, symbol, interval, limit)
	}

	key := c.cacheKey(symbol, interval, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		if out, err := decodeRows(b); err == nil {
			return out, nil
		}
		c.logger.Warn("deleting corrupted cache entry", zap.String("key", key))
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the exchange
	out, err := c.inner.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, TTLForInterval(interval)).Err(); err != nil {
			c.logger.Debug("failed to store klines in cache", zap.String("key", key), zap.Error(err))
		}
	}

	return out, nil
}

// Invalidate drops every cached entry for symbol/interval regardless of limit.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbol, interval string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol, interval)+"*")
}

func decodeRows(b []byte) ([]entity.RawCandle, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out []entity.RawCandle
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(symbol, interval string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		c.namespace,
		safe(symbol),
		safe(interval),
		limit,
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingMarketRepository) cacheKeyPrefix(symbol, interval string) string {
	return fmt.Sprintf("%s:%s:%s:",
		c.namespace,
		safe(symbol),
		safe(interval),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
