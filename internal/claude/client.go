// Package claude provides Anthropic Claude API integration.
package claude

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ethanmckee/quartermaster/internal/session"
)

const (
	// DefaultModel is the model used for channel replies.
	DefaultModel = "claude-sonnet-4-20250514"
	// MaxTokens bounds reply length; channel replies are meant to be short.
	MaxTokens = 512
	// Temperature keeps replies conversational.
	Temperature = 0.9
)

// Client wraps the Anthropic SDK client.
type Client struct {
	client       anthropic.Client
	model        string
	systemPrompt string
}

// NewClient creates a new Claude API client with the default persona prompt.
func NewClient(apiKey string) *Client {
	return NewClientWithModel(apiKey, DefaultModel)
}

// NewClientWithModel creates a client pinned to a specific model.
func NewClientWithModel(apiKey, model string) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client:       client,
		model:        model,
		systemPrompt: SystemPrompt,
	}
}

// SetSystemPrompt replaces the persona prompt.
func (c *Client) SetSystemPrompt(prompt string) {
	c.systemPrompt = prompt
}

// GenerateReply sends the channel's recent turns to Claude and returns the
// assistant's reply text.
func (c *Client) GenerateReply(ctx context.Context, turns []session.Turn) (string, error) {
	messages := BuildMessages(turns)
	if len(messages) == 0 {
		return "", fmt.Errorf("no conversation context to send")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   MaxTokens,
		Temperature: anthropic.Float(Temperature),
		Messages:    messages,
		System: []anthropic.TextBlockParam{
			{Text: c.systemPrompt},
		},
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	return ExtractTextContent(response), nil
}

// BuildMessages converts conversation turns into Anthropic message params.
// Consecutive same-role turns are coalesced and a leading assistant turn is
// dropped, since the API expects an alternating sequence starting with the
// user. System turns are carried in the system prompt, not the messages.
func BuildMessages(turns []session.Turn) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns))

	for _, turn := range turns {
		var role anthropic.MessageParamRole
		switch turn.Role {
		case session.RoleUser:
			role = anthropic.MessageParamRoleUser
		case session.RoleAssistant:
			role = anthropic.MessageParamRoleAssistant
		default:
			continue
		}

		text := FormatTurn(turn)

		if len(messages) == 0 && role == anthropic.MessageParamRoleAssistant {
			// The turn it was answering has been evicted from the window.
			continue
		}

		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, anthropic.NewTextBlock(text))
			continue
		}

		messages = append(messages, anthropic.MessageParam{
			Role: role,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(text),
			},
		})
	}

	return messages
}

// FormatTurn renders a turn as the model should see it. User turns carry the
// speaker's name so the assistant can tell channel participants apart.
func FormatTurn(turn session.Turn) string {
	if turn.Role == session.RoleUser && turn.Name != "" {
		return fmt.Sprintf("%s says: %s", turn.Name, turn.Text)
	}
	return turn.Text
}

// ExtractTextContent extracts text content from a message.
func ExtractTextContent(msg *anthropic.Message) string {
	var text string
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += b.Text
		}
	}
	return text
}
