package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepInterval is how often MemoryStore drops expired entries.
const SweepInterval = 5 * time.Minute

// MemoryStore keeps counters in process memory. Counts are not shared
// between processes, so limits only hold for a single instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
	now     func() time.Time
	log     *zap.Logger

	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewMemoryStore returns an empty store. Call Start to run the sweeper.
func NewMemoryStore(log *zap.Logger) *MemoryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryStore{
		entries: make(map[string]*Entry),
		now:     time.Now,
		log:     log,
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, now time.Time) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.After(entry.ResetAt) {
		entry = &Entry{Count: 1, ResetAt: now.Add(window)}
		s.entries[key] = entry
		return *entry, nil
	}

	entry.Count++
	return *entry, nil
}

// Sweep deletes entries whose window has ended and returns how many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs Sweep every interval until Stop is called.
func (s *MemoryStore) Start(interval time.Duration) {
	s.mu.Lock()
	if s.ticker != nil {
		s.mu.Unlock()
		return
	}
	s.ticker = time.NewTicker(interval)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	ticker, stop, done := s.ticker, s.stop, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(s.now()); n > 0 {
					s.log.Debug("rate limit sweep", zap.Int("removed", n))
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit.
func (s *MemoryStore) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	done := s.done
	s.ticker = nil
	s.mu.Unlock()

	<-done
}
