// Package session provides the per-user lifetime usage quota.
package session

import "sync"

// DefaultUsageCeiling is the number of admitted requests a user gets for the
// life of the process when no explicit ceiling is configured.
const DefaultUsageCeiling = 10

// UsageQuota counts admitted requests per user against a fixed ceiling.
// Counts only move up, except on explicit reset. Exhaustion is a normal
// outcome reported through the boolean result, not an error.
type UsageQuota struct {
	mu      sync.Mutex
	ceiling int
	counts  map[string]int
}

// NewUsageQuota creates a quota with the given ceiling. A ceiling <= 0 falls
// back to DefaultUsageCeiling.
func NewUsageQuota(ceiling int) *UsageQuota {
	if ceiling <= 0 {
		ceiling = DefaultUsageCeiling
	}
	return &UsageQuota{
		ceiling: ceiling,
		counts:  make(map[string]int),
	}
}

// TryConsume admits one request for the user if the ceiling has not been
// reached, incrementing the count. On denial nothing is mutated. remaining is
// the number of admissions left after the call.
func (q *UsageQuota) TryConsume(userID string) (allowed bool, remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := q.counts[userID]
	if count >= q.ceiling {
		return false, 0
	}

	count++
	q.counts[userID] = count
	return true, q.ceiling - count
}

// Peek returns the user's current count without mutation, 0 if unseen.
func (q *UsageQuota) Peek(userID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.counts[userID]
}

// Reset deletes the user's entry, so the next read sees 0.
func (q *UsageQuota) Reset(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.counts, userID)
}

// Ceiling returns the configured admission ceiling.
func (q *UsageQuota) Ceiling() int {
	return q.ceiling
}
