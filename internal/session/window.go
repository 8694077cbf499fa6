// Package session provides the bounded per-channel conversation window.
package session

import "sync"

// DefaultWindowCapacity is the number of turns retained per channel when no
// explicit capacity is configured.
const DefaultWindowCapacity = 6

// ConversationWindow keeps a bounded, ordered log of turns per channel.
// Appending beyond capacity evicts the oldest turn. Entries are created
// lazily on first append and live for the life of the process.
type ConversationWindow struct {
	mu       sync.RWMutex
	capacity int
	channels map[string][]Turn
}

// NewConversationWindow creates a window retaining at most capacity turns per
// channel. A capacity <= 0 falls back to DefaultWindowCapacity.
func NewConversationWindow(capacity int) *ConversationWindow {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &ConversationWindow{
		capacity: capacity,
		channels: make(map[string][]Turn),
	}
}

// Append inserts a turn at the tail of a channel's log, evicting the head
// when the log would exceed capacity. It always succeeds.
func (w *ConversationWindow) Append(channelID string, turn Turn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	turns := append(w.channels[channelID], turn)
	if len(turns) > w.capacity {
		turns = turns[len(turns)-w.capacity:]
	}
	w.channels[channelID] = turns
}

// Snapshot returns a copy of the channel's current turns in order, empty if
// the channel has not been seen.
func (w *ConversationWindow) Snapshot(channelID string) []Turn {
	w.mu.RLock()
	defer w.mu.RUnlock()

	turns := w.channels[channelID]
	if len(turns) == 0 {
		return nil
	}

	// Return a copy to prevent external modification
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of turns currently retained for a channel.
func (w *ConversationWindow) Len(channelID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.channels[channelID])
}

// Clear removes a channel's entry entirely.
func (w *ConversationWindow) Clear(channelID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.channels, channelID)
}

// Capacity returns the per-channel turn limit.
func (w *ConversationWindow) Capacity() int {
	return w.capacity
}
