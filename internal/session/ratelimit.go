// Package session provides the per-user sliding-window rate limiter.
package session

import (
	"sync"
	"time"
)

const (
	// DefaultRateThreshold is the number of admitted requests allowed per
	// user within the window when no explicit threshold is configured.
	DefaultRateThreshold = 3

	// DefaultRateWindow is the trailing interval over which admissions are
	// counted.
	DefaultRateWindow = 5 * time.Minute
)

// SlidingWindowRateLimiter keeps per-user request timestamps and admits a
// request only while fewer than threshold timestamps fall inside the trailing
// window. Pruning is lazy: stale timestamps are dropped whenever the log is
// consulted, so no background sweep is needed. Denied attempts are never
// recorded and so never count against the window themselves.
type SlidingWindowRateLimiter struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	logs      map[string][]time.Time
}

// NewSlidingWindowRateLimiter creates a limiter admitting at most threshold
// requests per user within window. Non-positive arguments fall back to the
// defaults.
func NewSlidingWindowRateLimiter(threshold int, window time.Duration) *SlidingWindowRateLimiter {
	if threshold <= 0 {
		threshold = DefaultRateThreshold
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &SlidingWindowRateLimiter{
		threshold: threshold,
		window:    window,
		logs:      make(map[string][]time.Time),
	}
}

// TryAdmit checks the user's recent admissions against the threshold.
// On admission it records now in the pruned log. On denial the stored log is
// left exactly as it was, so repeated denials never mutate state.
// recentCount is the number of in-window timestamps seen before now.
func (r *SlidingWindowRateLimiter) TryAdmit(userID string, now time.Time) (allowed bool, recentCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := r.prune(userID, now)
	if len(recent) >= r.threshold {
		return false, len(recent)
	}

	r.logs[userID] = append(recent, now)
	return true, len(recent)
}

// Peek counts the user's in-window timestamps without mutating the log.
func (r *SlidingWindowRateLimiter) Peek(userID string, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	count := 0
	for _, t := range r.logs[userID] {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}

// Reset deletes the user's timestamp log.
func (r *SlidingWindowRateLimiter) Reset(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, userID)
}

// Threshold returns the configured per-window admission threshold.
func (r *SlidingWindowRateLimiter) Threshold() int {
	return r.threshold
}

// Window returns the configured trailing window.
func (r *SlidingWindowRateLimiter) Window() time.Duration {
	return r.window
}

// prune returns the user's timestamps still inside the window ending at now,
// reusing the backing array. Callers must hold r.mu.
func (r *SlidingWindowRateLimiter) prune(userID string, now time.Time) []time.Time {
	cutoff := now.Add(-r.window)
	existing := r.logs[userID]
	valid := existing[:0]
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}
