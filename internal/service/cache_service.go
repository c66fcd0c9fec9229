package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/redis"
	"go.uber.org/zap"
)

// CacheClient is the subset of the Redis client the cache layer uses
type CacheClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	Health(ctx context.Context) error
}

// CacheService provides cache-aside reads and short-lived locks on top of
// Redis. A nil *CacheService or one without a client passes every read
// through to its fallback, so Redis stays optional.
type CacheService struct {
	redis  CacheClient
	keys   *redis.KeyBuilder
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(client CacheClient, keys *redis.KeyBuilder, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{redis: client, keys: keys, logger: logger}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.redis != nil && c.keys != nil
}

// GetWaitlistStatsWithCache returns waitlist stats, preferring a cached copy
func (c *CacheService) GetWaitlistStatsWithCache(ctx context.Context, dbFallback func(ctx context.Context) (*domain.WaitlistStats, error)) (*domain.WaitlistStats, error) {
	if !c.enabled() {
		return dbFallback(ctx)
	}

	cacheKey := c.keys.KeyWaitlistStats()

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var stats domain.WaitlistStats
		if marshalErr := json.Unmarshal([]byte(cachedData), &stats); marshalErr == nil {
			c.logger.Debug("Waitlist stats cache hit")
			return &stats, nil
		} else {
			// Log cache corruption but continue to database
			c.logger.Warn("Waitlist stats cache corrupted, falling back to database", zap.Error(marshalErr))
		}
	} else if err != nil && err != redis.Nil {
		c.logger.Warn("Waitlist stats cache error, falling back to database", zap.Error(err))
	}

	stats, err := dbFallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if stats != nil {
		c.store(ctx, cacheKey, stats, redis.TTLWaitlistStats)
	}
	return stats, nil
}

// InvalidateWaitlistStats drops the cached stats after a new signup
func (c *CacheService) InvalidateWaitlistStats(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Delete(ctx, c.keys.KeyWaitlistStats()); err != nil {
		c.logger.Warn("Failed to invalidate waitlist stats cache", zap.Error(err))
	}
}

// AcquireReportLock claims a named report run for ttl. Without Redis every
// caller wins, which is correct for a single instance.
func (c *CacheService) AcquireReportLock(ctx context.Context, report string, ttl time.Duration) (bool, error) {
	if !c.enabled() {
		return true, nil
	}
	ok, err := c.redis.SetNX(ctx, c.keys.KeyReportLock(report), time.Now().UTC().Format(time.RFC3339), ttl)
	if err != nil {
		return false, fmt.Errorf("acquire report lock %q: %w", report, err)
	}
	return ok, nil
}

// HealthCheck performs a health check on the cache system
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}

func (c *CacheService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to marshal value for caching", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, string(data), ttl); err != nil {
		c.logger.Warn("Failed to cache value", zap.Error(err))
	}
}
