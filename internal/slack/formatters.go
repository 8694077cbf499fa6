// Package slack provides Slack message formatting utilities.
package slack

import (
	"fmt"
	"strings"

	"github.com/ethanmckee/quartermaster/internal/session"
)

// FormatBold wraps text in bold markers.
func FormatBold(text string) string {
	return fmt.Sprintf("*%s*", text)
}

// FormatUserMention creates a user mention.
func FormatUserMention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// ParseUserMention extracts a user ID from a slash-command argument. Accepts
// the escaped mention form "<@U123|name>", "<@U123>", or a bare ID.
func ParseUserMention(arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ""
	}

	if strings.HasPrefix(arg, "<@") && strings.HasSuffix(arg, ">") {
		inner := arg[2 : len(arg)-1]
		if i := strings.IndexByte(inner, '|'); i >= 0 {
			inner = inner[:i]
		}
		return inner
	}

	// Bare IDs come from workspaces without escaped mentions enabled.
	if strings.ContainsAny(arg, " <>@|") {
		return ""
	}
	return arg
}

// FormatStats renders a user's limit state for the /stats response.
func FormatStats(stats session.Stats, channelTurns, channelCapacity int) string {
	var sb strings.Builder
	sb.WriteString(FormatBold("Your Stats:"))
	fmt.Fprintf(&sb, "\n- Usage Count: %d/%d", stats.Usage, stats.UsageCeiling)
	fmt.Fprintf(&sb, "\n- Channel Memory: %d/%d turns", channelTurns, channelCapacity)
	fmt.Fprintf(&sb, "\n- Recent Requests: %d/%d", stats.WindowEntries, stats.WindowThreshold)
	return sb.String()
}

// TruncateText truncates text to a maximum length with ellipsis.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}
