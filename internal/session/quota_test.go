package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaConsumesUpToCeiling(t *testing.T) {
	q := NewUsageQuota(10)

	for i := 1; i <= 10; i++ {
		allowed, remaining := q.TryConsume("U1")
		require.True(t, allowed, "consume %d should be allowed", i)
		assert.Equal(t, 10-i, remaining)
	}

	allowed, _ := q.TryConsume("U1")
	assert.False(t, allowed)
	assert.Equal(t, 10, q.Peek("U1"), "denied consume must not mutate the count")
}

func TestQuotaDenialIsIdempotent(t *testing.T) {
	q := NewUsageQuota(2)
	q.TryConsume("U1")
	q.TryConsume("U1")

	for i := 0; i < 5; i++ {
		allowed, remaining := q.TryConsume("U1")
		assert.False(t, allowed)
		assert.Zero(t, remaining)
	}
	assert.Equal(t, 2, q.Peek("U1"))
}

func TestQuotaPeekUnseenUser(t *testing.T) {
	q := NewUsageQuota(10)
	assert.Zero(t, q.Peek("never-seen"))
}

func TestQuotaResetRestoresAdmission(t *testing.T) {
	q := NewUsageQuota(1)

	allowed, _ := q.TryConsume("U1")
	require.True(t, allowed)
	allowed, _ = q.TryConsume("U1")
	require.False(t, allowed)

	q.Reset("U1")
	assert.Zero(t, q.Peek("U1"))

	allowed, _ = q.TryConsume("U1")
	assert.True(t, allowed)
}

func TestQuotaUsersAreIndependent(t *testing.T) {
	q := NewUsageQuota(3)

	for i := 0; i < 3; i++ {
		q.TryConsume("U1")
	}
	allowed, _ := q.TryConsume("U2")

	assert.True(t, allowed)
	assert.Equal(t, 3, q.Peek("U1"))
	assert.Equal(t, 1, q.Peek("U2"))
}

func TestQuotaDefaultCeiling(t *testing.T) {
	q := NewUsageQuota(0)
	require.Equal(t, DefaultUsageCeiling, q.Ceiling())

	for i := 0; i < DefaultUsageCeiling; i++ {
		allowed, _ := q.TryConsume("U1")
		require.True(t, allowed, fmt.Sprintf("consume %d", i+1))
	}
	allowed, _ := q.TryConsume("U1")
	assert.False(t, allowed)
}
