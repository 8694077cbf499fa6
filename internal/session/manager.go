// Package session composes the conversation window, usage quota, and rate
// limiter behind the keyed operations the handlers use.
package session

import (
	"log/slog"
	"time"
)

// Decision is the outcome of admitting an inbound request.
type Decision int

const (
	// Admitted means the request passed both the rate and quota checks and
	// the caller may proceed to the model call.
	Admitted Decision = iota
	// RateLimited means the user exceeded the sliding-window threshold.
	RateLimited
	// QuotaExceeded means the user exhausted their lifetime usage ceiling.
	QuotaExceeded
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case Admitted:
		return "admitted"
	case RateLimited:
		return "rate_limited"
	case QuotaExceeded:
		return "quota_exceeded"
	default:
		return "unknown"
	}
}

// Stats is a read-only aggregate of one user's limit state for display.
type Stats struct {
	Usage           int
	UsageCeiling    int
	WindowEntries   int
	WindowThreshold int
}

// Manager owns the three session stores and is their sole mutator.
// Conversation context is keyed per channel while quota and rate limit are
// keyed per user: channel participants share context, but fairness limits are
// individual.
type Manager struct {
	window  *ConversationWindow
	quota   *UsageQuota
	limiter *SlidingWindowRateLimiter
	logger  *slog.Logger
}

// NewManager creates a manager around the given stores.
func NewManager(
	window *ConversationWindow,
	quota *UsageQuota,
	limiter *SlidingWindowRateLimiter,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		window:  window,
		quota:   quota,
		limiter: limiter,
		logger:  logger,
	}
}

// HandleInbound records an inbound turn and runs the admission checks.
// The turn is appended to the channel's window unconditionally: context is
// recorded even when the assistant will not respond. The rate check runs
// before the quota check, and an admission that later fails the quota check
// still consumed a rate slot.
func (m *Manager) HandleInbound(channelID, userID string, turn Turn, now time.Time) Decision {
	m.window.Append(channelID, turn)

	allowed, recent := m.limiter.TryAdmit(userID, now)
	if !allowed {
		m.logger.Debug("rate limited",
			"user", userID,
			"recent", recent,
			"threshold", m.limiter.Threshold(),
		)
		return RateLimited
	}

	allowed, remaining := m.quota.TryConsume(userID)
	if !allowed {
		m.logger.Debug("quota exceeded",
			"user", userID,
			"ceiling", m.quota.Ceiling(),
		)
		return QuotaExceeded
	}

	m.logger.Debug("admitted",
		"user", userID,
		"channel", channelID,
		"quota_remaining", remaining,
	)
	return Admitted
}

// RecordInbound appends an inbound turn without running admission. Used for
// passive channel messages the assistant is not asked to answer: context is
// still recorded, limits are untouched.
func (m *Manager) RecordInbound(channelID string, turn Turn) {
	m.window.Append(channelID, turn)
}

// RecordReply appends the assistant's turn to the channel's window.
func (m *Manager) RecordReply(channelID string, turn Turn) {
	m.window.Append(channelID, turn)
}

// ResetUser clears the user's quota and rate-limit state. Conversation
// memory is channel-scoped and deliberately untouched: the channel's shared
// context does not belong to any one user.
func (m *Manager) ResetUser(userID string) {
	m.quota.Reset(userID)
	m.limiter.Reset(userID)
	m.logger.Info("session reset", "user", userID)
}

// Stats reports the user's current usage and rate-window counts against
// their ceilings. Read-only.
func (m *Manager) Stats(userID string, now time.Time) Stats {
	return Stats{
		Usage:           m.quota.Peek(userID),
		UsageCeiling:    m.quota.Ceiling(),
		WindowEntries:   m.limiter.Peek(userID, now),
		WindowThreshold: m.limiter.Threshold(),
	}
}

// Window exposes the conversation window for snapshotting channel context.
func (m *Manager) Window() *ConversationWindow {
	return m.window
}
