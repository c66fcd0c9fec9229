package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// hitScript increments the counter and opens the window on the first hit.
// The PTTL guard repairs keys that lost their expiry.
var hitScript = goredis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// ScriptRunner is the subset of the Redis client the store needs.
type ScriptRunner interface {
	RunScript(ctx context.Context, script *goredis.Script, keys []string, args ...interface{}) (interface{}, error)
}

// RedisStore keeps counters in Redis so every instance shares one window per
// key. Redis expiry replaces the sweep.
type RedisStore struct {
	client ScriptRunner
	keyFn  func(identifier string) string
}

// NewRedisStore returns a store that maps identifiers to keys with keyFn.
func NewRedisStore(client ScriptRunner, keyFn func(string) string) *RedisStore {
	if keyFn == nil {
		keyFn = func(id string) string { return "ratelimit:" + id }
	}
	return &RedisStore{client: client, keyFn: keyFn}
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Entry, error) {
	res, err := s.client.RunScript(ctx, hitScript, []string{s.keyFn(key)}, window.Milliseconds())
	if err != nil {
		return Entry{}, err
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return Entry{}, fmt.Errorf("unexpected script result %T", res)
	}
	count, ok1 := vals[0].(int64)
	ttl, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return Entry{}, fmt.Errorf("unexpected script values %v", vals)
	}

	return Entry{
		Count:   count,
		ResetAt: now.Add(time.Duration(ttl) * time.Millisecond),
	}, nil
}
