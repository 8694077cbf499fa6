package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(ms int64) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestRateLimiterAdmitsUpToThreshold(t *testing.T) {
	r := NewSlidingWindowRateLimiter(3, 5*time.Minute)

	for i, ms := range []int64{0, 1000, 2000} {
		allowed, recent := r.TryAdmit("U1", at(ms))
		require.True(t, allowed, "admit %d", i+1)
		assert.Equal(t, i, recent)
	}

	allowed, recent := r.TryAdmit("U1", at(2500))
	assert.False(t, allowed)
	assert.Equal(t, 3, recent)
}

func TestRateLimiterAdmitsAfterOldestExpires(t *testing.T) {
	r := NewSlidingWindowRateLimiter(3, 5*time.Minute)

	r.TryAdmit("U1", at(0))
	r.TryAdmit("U1", at(1000))
	r.TryAdmit("U1", at(2000))

	allowed, _ := r.TryAdmit("U1", at(2500))
	require.False(t, allowed)

	// t=0 has fallen out of the window by t=301000.
	allowed, recent := r.TryAdmit("U1", at(301000))
	assert.True(t, allowed)
	assert.Equal(t, 2, recent)
	assert.Equal(t, 3, r.Peek("U1", at(301000)))
}

func TestRateLimiterDenialDoesNotMutate(t *testing.T) {
	r := NewSlidingWindowRateLimiter(2, time.Minute)

	r.TryAdmit("U1", at(0))
	r.TryAdmit("U1", at(100))

	before := r.Peek("U1", at(200))
	for i := 0; i < 5; i++ {
		allowed, _ := r.TryAdmit("U1", at(200))
		require.False(t, allowed)
	}
	assert.Equal(t, before, r.Peek("U1", at(200)))
}

func TestRateLimiterPeekDoesNotMutate(t *testing.T) {
	r := NewSlidingWindowRateLimiter(3, time.Minute)

	r.TryAdmit("U1", at(0))
	assert.Equal(t, 1, r.Peek("U1", at(100)))
	assert.Equal(t, 1, r.Peek("U1", at(100)))

	// Stale entries are only counted out, never admitted back.
	assert.Zero(t, r.Peek("U1", at(61_000)))
}

func TestRateLimiterReset(t *testing.T) {
	r := NewSlidingWindowRateLimiter(1, time.Minute)

	allowed, _ := r.TryAdmit("U1", at(0))
	require.True(t, allowed)
	allowed, _ = r.TryAdmit("U1", at(100))
	require.False(t, allowed)

	r.Reset("U1")
	assert.Zero(t, r.Peek("U1", at(200)))

	allowed, _ = r.TryAdmit("U1", at(200))
	assert.True(t, allowed)
}

func TestRateLimiterUsersAreIndependent(t *testing.T) {
	r := NewSlidingWindowRateLimiter(1, time.Minute)

	r.TryAdmit("U1", at(0))
	allowed, _ := r.TryAdmit("U2", at(0))

	assert.True(t, allowed)
	assert.Equal(t, 1, r.Peek("U1", at(0)))
	assert.Equal(t, 1, r.Peek("U2", at(0)))
}

func TestRateLimiterDefaults(t *testing.T) {
	r := NewSlidingWindowRateLimiter(0, 0)
	assert.Equal(t, DefaultRateThreshold, r.Threshold())
	assert.Equal(t, DefaultRateWindow, r.Window())
}

func TestRateLimiterBoundaryIsStrict(t *testing.T) {
	r := NewSlidingWindowRateLimiter(1, 5*time.Minute)

	r.TryAdmit("U1", at(0))

	// now - t == window counts as expired: retention requires now - t < window.
	assert.Zero(t, r.Peek("U1", at(300_000)))
	allowed, _ := r.TryAdmit("U1", at(300_000))
	assert.True(t, allowed)
}
