package bot

import (
	"sync"
	"time"
)

const (
	rateLimitMaxCommands = 5
	rateLimitWindow      = 60 * time.Second
)

// RateLimiter allows rateLimitMaxCommands per user in any rateLimitWindow.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (r *RateLimiter) Allow(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-rateLimitWindow)

	timestamps := r.requests[userID]
	pruned := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			pruned = append(pruned, t)
		}
	}

	if len(pruned) >= rateLimitMaxCommands {
		r.requests[userID] = pruned
		return false
	}

	r.requests[userID] = append(pruned, now)
	return true
}

// Forget drops users with no request inside the window.
func (r *RateLimiter) Forget() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-rateLimitWindow)
	removed := 0
	for userID, timestamps := range r.requests {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(r.requests, userID)
			removed++
		}
	}
	return removed
}
