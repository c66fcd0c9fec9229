package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Nil is returned by Get when the key does not exist
const Nil = redis.Nil

// TTL constants
const (
	TTLWaitlistStats = 60 * time.Second

	// Report locks are keyed by period (day or month) and outlive the window
	// in which a scheduled run can fire for that period.
	TTLReportLock = 48 * time.Hour
)

type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	c.logOp("redis_get", key, time.Since(start), err)
	return val, err
}

// Set stores a value in Redis with TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	c.logOp("redis_set", key, time.Since(start), err)
	return err
}

// SetNX sets a value only if it doesn't exist
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	start := time.Now()
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	c.logOp("redis_setnx", key, time.Since(start), err)
	return ok, err
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	c.log.Debug("redis_del",
		zap.Int("keys", len(keys)),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return err
}

// RunScript evaluates a Lua script atomically, loading it on first use
func (c *Client) RunScript(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (interface{}, error) {
	start := time.Now()
	res, err := script.Run(ctx, c.rdb, keys, args...).Result()
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	c.logOp("redis_eval", key, time.Since(start), err)
	return res, err
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.log.Info("redis_ping", zap.Duration("duration", time.Since(start)), zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", time.Since(start)))
	}
	return err
}

// logOp logs failures at info and successes at debug. redis.Nil is a miss, not a failure.
func (c *Client) logOp(op, key string, dur time.Duration, err error) {
	if err != nil && err != redis.Nil {
		c.log.Info(op,
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
		return
	}
	c.log.Debug(op,
		zap.String("key_prefix", prefixForLog(key)),
		zap.Duration("duration", dur))
}

// prefixForLog returns a safe prefix of a key to avoid logging PII
func prefixForLog(key string) string {
	if len(key) <= 24 {
		return key
	}
	return key[:24] + "…"
}
