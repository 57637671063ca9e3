package store

import (
	"context"
	"sync"
	"time"

	"github.com/snaplink-io/snaplink/internal/ratelimit"
)

// sweepInterval controls how often idle client keys are dropped. Redirect
// traffic is anonymous and high-volume, so the map must not grow forever.
const sweepInterval = 5 * time.Minute

// RateLimitMemoryStore keeps sliding-window request timestamps in memory.
type RateLimitMemoryStore struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		hits:      make(map[string][]time.Time),
		lastSweep: time.Now(),
	}
}

// Record registers a request for the key and returns how many requests the
// key has made within the window, including this one.
func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	kept := s.hits[key][:0]

	for _, ts := range s.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	kept = append(kept, now)
	s.hits[key] = kept

	if now.Sub(s.lastSweep) > sweepInterval {
		s.sweep(now)
	}

	return int64(len(kept)), nil
}

// sweep drops keys that have been idle for longer than any window we hand
// out. Caller must hold the lock.
func (s *RateLimitMemoryStore) sweep(now time.Time) {
	horizon := now.Add(-time.Hour)

	for key, stamps := range s.hits {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(horizon) {
			delete(s.hits, key)
		}
	}

	s.lastSweep = now
}
