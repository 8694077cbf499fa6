// Package session tracks per-channel conversation context and per-user
// fairness limits for the bot. All state is in-memory and process-lifetime.
package session

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one recorded utterance in a channel's conversation history.
// Immutable once created.
type Turn struct {
	// Role is the speaker role.
	Role Role
	// Text is the utterance content.
	Text string
	// Name is the speaker's display name, set for user turns so the
	// assistant can tell participants apart. Empty for assistant turns.
	Name string
}

// UserTurn builds a user turn attributed to a display name.
func UserTurn(name, text string) Turn {
	return Turn{Role: RoleUser, Text: text, Name: name}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}
