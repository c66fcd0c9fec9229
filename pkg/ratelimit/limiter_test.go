package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter() (*Limiter, *MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(nil)
	return New(store, WithClock(clock.Now)), store, clock
}

func TestLimiter_HourlyScenario(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()
	rule := Rule{MaxRequests: 5, Window: time.Hour}
	start := clock.Now()

	for i := 1; i <= 5; i++ {
		d, err := limiter.Allow(ctx, "feedback:user-1", rule)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d should be allowed", i)
		assert.Equal(t, int64(i), d.Count)
		assert.Equal(t, 5-i, d.Remaining())
	}

	d, err := limiter.Allow(ctx, "feedback:user-1", rule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 3600, d.RetryAfterSeconds())
	assert.Equal(t, 0, d.Remaining())

	clock.Advance(time.Hour + time.Millisecond)
	d, err = limiter.Allow(ctx, "feedback:user-1", rule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(1), d.Count)
	assert.Equal(t, start.Add(time.Hour+time.Millisecond).Add(time.Hour), d.ResetAt)
}

func TestLimiter_RetryAfterRoundsUp(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()
	rule := Rule{MaxRequests: 1, Window: time.Minute}

	_, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)

	clock.Advance(1500 * time.Millisecond)
	d, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 58500*time.Millisecond, d.RetryAfter)
	assert.Equal(t, 59, d.RetryAfterSeconds())
	assert.LessOrEqual(t, d.RetryAfterSeconds(), int(rule.Window.Seconds()))
}

func TestLimiter_WindowBoundaryIsInclusive(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()
	rule := Rule{MaxRequests: 1, Window: time.Minute}

	_, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)

	// At exactly resetAt the window is still open.
	clock.Advance(time.Minute)
	d, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.RetryAfterSeconds())

	clock.Advance(time.Nanosecond)
	d, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiter_RejectedHitsStillCount(t *testing.T) {
	limiter, _, _ := newTestLimiter()
	ctx := context.Background()
	rule := Rule{MaxRequests: 2, Window: time.Minute}

	for i := 0; i < 4; i++ {
		_, err := limiter.Allow(ctx, "k", rule)
		require.NoError(t, err)
	}
	d, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.Equal(t, int64(5), d.Count)
}

func TestLimiter_AllowsUpToMax(t *testing.T) {
	ctx := context.Background()

	for max := 1; max <= 20; max++ {
		t.Run(fmt.Sprintf("max=%d", max), func(t *testing.T) {
			limiter, _, clock := newTestLimiter()
			rule := Rule{MaxRequests: max, Window: 10 * time.Second}

			for i := 0; i < max; i++ {
				d, err := limiter.Allow(ctx, "id", rule)
				require.NoError(t, err)
				require.True(t, d.Allowed)
				clock.Advance(10 * time.Millisecond)
			}

			d, err := limiter.Allow(ctx, "id", rule)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.LessOrEqual(t, d.RetryAfterSeconds(), 10)
		})
	}
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	limiter, _, _ := newTestLimiter()
	ctx := context.Background()
	rule := Rule{MaxRequests: 1, Window: time.Minute}

	a, err := limiter.Allow(ctx, "track-referral:1.1.1.1", rule)
	require.NoError(t, err)
	assert.True(t, a.Allowed)

	a, err = limiter.Allow(ctx, "track-referral:1.1.1.1", rule)
	require.NoError(t, err)
	assert.False(t, a.Allowed)

	b, err := limiter.Allow(ctx, "track-referral:2.2.2.2", rule)
	require.NoError(t, err)
	assert.True(t, b.Allowed)
	assert.Equal(t, int64(1), b.Count)
}

func TestLimiter_Defaults(t *testing.T) {
	limiter, _, _ := newTestLimiter()
	ctx := context.Background()

	var d Decision
	var err error
	for i := 0; i < DefaultMaxRequests+1; i++ {
		d, err = limiter.Allow(ctx, "k", Rule{})
		require.NoError(t, err)
	}
	assert.False(t, d.Allowed)
	assert.Equal(t, DefaultMaxRequests, d.Limit)
	assert.Equal(t, 60, d.RetryAfterSeconds())
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration, time.Time) (Entry, error) {
	return Entry{}, errors.New("store down")
}

func TestLimiter_StoreError(t *testing.T) {
	limiter := New(failingStore{})

	_, err := limiter.Allow(context.Background(), "k", Rule{MaxRequests: 1, Window: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestDecision_RetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name  string
		after time.Duration
		want  int
	}{
		{name: "zero", after: 0, want: 0},
		{name: "negative", after: -time.Second, want: 0},
		{name: "exact", after: 2 * time.Second, want: 2},
		{name: "fraction", after: 2*time.Second + time.Millisecond, want: 3},
		{name: "sub second", after: time.Millisecond, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decision{RetryAfter: tt.after}.RetryAfterSeconds())
		})
	}
}
