// Package ratelimit implements a fixed-window request counter keyed by an
// opaque identifier such as "feedback:<user-id>" or "track-referral:<ip>".
//
// A window opens on the first hit for a key and lasts Rule.Window. Every hit
// inside the window increments the counter, including rejected ones. Once the
// counter exceeds Rule.MaxRequests the hit is rejected until the window ends.
// A client can therefore get up to 2×MaxRequests through across a window
// boundary.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Defaults applied when a Rule leaves a field at zero.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// Rule bounds the number of hits per window.
type Rule struct {
	MaxRequests int
	Window      time.Duration
}

func (r Rule) withDefaults() Rule {
	if r.MaxRequests <= 0 {
		r.MaxRequests = DefaultMaxRequests
	}
	if r.Window <= 0 {
		r.Window = DefaultWindow
	}
	return r
}

// Entry is the counter state for one identifier.
type Entry struct {
	Count   int64
	ResetAt time.Time
}

// Store records a hit for key and returns the entry after the hit. When no
// entry exists or now is past ResetAt the store must start a new window:
// {Count: 1, ResetAt: now+window}.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Entry, error)
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Count      int64
	Limit      int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds.
func (d Decision) RetryAfterSeconds() int {
	if d.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

// Remaining returns how many hits are left in the current window.
func (d Decision) Remaining() int {
	left := int64(d.Limit) - d.Count
	if left < 0 {
		return 0
	}
	return int(left)
}

// Limiter applies rules against a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New returns a Limiter backed by store.
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a hit for identifier and decides whether it may proceed.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (Decision, error) {
	rule = rule.withDefaults()
	now := l.now()

	entry, err := l.store.Hit(ctx, identifier, rule.Window, now)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit hit %q: %w", identifier, err)
	}

	d := Decision{
		Allowed: entry.Count <= int64(rule.MaxRequests),
		Count:   entry.Count,
		Limit:   rule.MaxRequests,
		ResetAt: entry.ResetAt,
	}
	if !d.Allowed {
		d.RetryAfter = entry.ResetAt.Sub(now)
	}
	return d, nil
}
