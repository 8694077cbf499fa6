package slack

import (
	"testing"

	"github.com/ethanmckee/quartermaster/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestParseUserMention(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"escaped with label", "<@U123ABC|alice>", "U123ABC"},
		{"escaped without label", "<@U123ABC>", "U123ABC"},
		{"bare id", "U123ABC", "U123ABC"},
		{"padded", "  <@U123ABC>  ", "U123ABC"},
		{"empty", "", ""},
		{"garbage", "not a @mention", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUserMention(tt.arg))
		})
	}
}

func TestFormatStats(t *testing.T) {
	out := FormatStats(session.Stats{
		Usage:           4,
		UsageCeiling:    10,
		WindowEntries:   2,
		WindowThreshold: 3,
	}, 5, 6)

	assert.Contains(t, out, "Usage Count: 4/10")
	assert.Contains(t, out, "Channel Memory: 5/6 turns")
	assert.Contains(t, out, "Recent Requests: 2/3")
}

func TestFormatUserMention(t *testing.T) {
	assert.Equal(t, "<@U1>", FormatUserMention("U1"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "lon...", TruncateText("long enough text", 6))
	assert.Equal(t, "lo", TruncateText("long", 2))
}
