// Package slack provides Slack bot integration using Socket Mode.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ethanmckee/quartermaster/internal/config"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// EventHandler processes messages and slash commands delivered by the bot.
type EventHandler interface {
	// HandleMessage processes an inbound channel message. A nil response
	// means nothing should be posted.
	HandleMessage(ctx context.Context, msg *IncomingMessage) (*OutgoingMessage, error)
	// HandleCommand processes a slash command. The response is delivered
	// privately to the invoking user.
	HandleCommand(ctx context.Context, cmd *CommandRequest) *CommandResponse
}

// IncomingMessage represents a message received by the bot.
type IncomingMessage struct {
	// Text is the message content (with bot mention stripped)
	Text string
	// UserID is the Slack user ID of the sender
	UserID string
	// UserName is the sender's display name
	UserName string
	// ChannelID is the channel where the message was sent
	ChannelID string
	// ThreadTS is the thread timestamp (for threading replies)
	ThreadTS string
	// IsDirected indicates the message addressed the bot (mention or DM)
	IsDirected bool
}

// OutgoingMessage represents a message to send.
type OutgoingMessage struct {
	// Text is the message content
	Text string
	// ThreadTS is the thread timestamp to reply in
	ThreadTS string
}

// CommandRequest represents a slash command invocation.
type CommandRequest struct {
	// Command is the slash command name, e.g. "/stats"
	Command string
	// Text is the argument text after the command
	Text string
	// UserID is the invoking user
	UserID string
	// ChannelID is the channel the command was invoked from
	ChannelID string
}

// CommandResponse is the private reply to a slash command.
type CommandResponse struct {
	// Text is the response content, delivered ephemerally
	Text string
}

// Bot manages the Slack connection and event handling.
type Bot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	handler      EventHandler
	botUserID    string
	logger       *slog.Logger

	nameMu    sync.Mutex
	nameCache map[string]string
}

// NewBot creates a new Slack bot instance.
func NewBot(cfg *config.Config, handler EventHandler, logger *slog.Logger) (*Bot, error) {
	client := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(cfg.LogLevel == "debug"),
	)

	// Get bot user ID for mention detection
	authTest, err := client.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	return &Bot{
		client:       client,
		socketClient: socketClient,
		handler:      handler,
		botUserID:    authTest.UserID,
		logger:       logger,
		nameCache:    make(map[string]string),
	}, nil
}

// IsWorkspaceAdmin reports whether the user holds admin or owner rights in
// the workspace. Used as the capability check for admin commands.
func (b *Bot) IsWorkspaceAdmin(userID string) bool {
	user, err := b.client.GetUserInfo(userID)
	if err != nil {
		b.logger.Warn("failed to look up user for capability check", "user", userID, "error", err)
		return false
	}
	return user.IsAdmin || user.IsOwner
}

// Run starts the bot and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go b.handleEvents(ctx)

	b.logger.Info("starting Slack bot", "bot_user_id", b.botUserID)
	return b.socketClient.RunContext(ctx)
}

// handleEvents processes incoming Socket Mode events.
func (b *Bot) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-b.socketClient.Events:
			b.handleEvent(ctx, evt)
		}
	}
}

// handleEvent routes a single event to the appropriate handler.
func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeEventsAPI:
		b.handleEventsAPI(ctx, evt)
	case socketmode.EventTypeSlashCommand:
		b.handleSlashCommand(ctx, evt)
	case socketmode.EventTypeConnecting:
		b.logger.Info("connecting to Slack...")
	case socketmode.EventTypeConnected:
		b.logger.Info("connected to Slack")
	case socketmode.EventTypeConnectionError:
		b.logger.Error("connection error", "error", evt.Data)
	}
}

// handleEventsAPI processes Events API events.
func (b *Bot) handleEventsAPI(ctx context.Context, evt socketmode.Event) {
	eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}

	b.socketClient.Ack(*evt.Request)

	if eventsAPIEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch innerEvent := eventsAPIEvent.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		b.handleMessageEvent(ctx, innerEvent)
	case *slackevents.AppMentionEvent:
		// Mentions in subscribed channels also arrive as message events;
		// handling both would record the turn twice.
	}
}

// handleMessageEvent processes channel messages and DMs. Every message feeds
// the channel's conversation context; only directed ones get a reply.
func (b *Bot) handleMessageEvent(ctx context.Context, evt *slackevents.MessageEvent) {
	// Ignore bot messages and message changes
	if evt.BotID != "" || evt.SubType != "" || evt.User == b.botUserID {
		return
	}

	isDM := evt.ChannelType == "im"

	msg := &IncomingMessage{
		Text:       b.stripBotMention(evt.Text),
		UserID:     evt.User,
		UserName:   b.displayName(evt.User),
		ChannelID:  evt.Channel,
		ThreadTS:   evt.ThreadTimeStamp,
		IsDirected: isDM || b.mentionsBot(evt.Text),
	}

	// Use the event timestamp for threading if no thread exists
	if msg.ThreadTS == "" {
		msg.ThreadTS = evt.TimeStamp
	}

	b.processMessage(ctx, msg)
}

// handleSlashCommand processes the bot's slash commands.
func (b *Bot) handleSlashCommand(ctx context.Context, evt socketmode.Event) {
	cmd, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return
	}

	b.socketClient.Ack(*evt.Request)

	switch cmd.Command {
	case "/reset", "/admin-reset", "/stats":
	default:
		return
	}

	response := b.handler.HandleCommand(ctx, &CommandRequest{
		Command:   cmd.Command,
		Text:      strings.TrimSpace(cmd.Text),
		UserID:    cmd.UserID,
		ChannelID: cmd.ChannelID,
	})
	if response == nil {
		return
	}

	// Command responses are private to the invoking user.
	if _, err := b.client.PostEphemeral(cmd.ChannelID, cmd.UserID,
		slack.MsgOptionText(response.Text, false),
	); err != nil {
		b.logger.Error("failed to send command response", "command", cmd.Command, "error", err)
	}
}

// processMessage sends a message to the handler and posts the response.
func (b *Bot) processMessage(ctx context.Context, msg *IncomingMessage) {
	b.logger.Debug("processing message",
		"user", msg.UserID,
		"channel", msg.ChannelID,
		"directed", msg.IsDirected,
	)

	response, err := b.handler.HandleMessage(ctx, msg)
	if err != nil {
		b.logger.Error("handler error", "error", err)
		response = &OutgoingMessage{
			Text:     "Sorry, something went wrong handling that message.",
			ThreadTS: msg.ThreadTS,
		}
	}
	if response == nil {
		return
	}

	if err := b.sendMessage(msg.ChannelID, response); err != nil {
		b.logger.Error("failed to send message", "error", err)
	}
}

// maxMessageLength is Slack's per-message text limit.
const maxMessageLength = 4000

// sendMessage posts a message to a channel.
func (b *Bot) sendMessage(channelID string, msg *OutgoingMessage) error {
	options := []slack.MsgOption{
		slack.MsgOptionText(TruncateText(msg.Text, maxMessageLength), false),
	}

	if msg.ThreadTS != "" {
		options = append(options, slack.MsgOptionTS(msg.ThreadTS))
	}

	_, _, err := b.client.PostMessage(channelID, options...)
	return err
}

// displayName resolves a user ID to a display name, caching lookups for the
// life of the process.
func (b *Bot) displayName(userID string) string {
	b.nameMu.Lock()
	name, ok := b.nameCache[userID]
	b.nameMu.Unlock()
	if ok {
		return name
	}

	user, err := b.client.GetUserInfo(userID)
	if err != nil {
		b.logger.Warn("failed to look up user name", "user", userID, "error", err)
		return userID
	}

	name = user.Profile.DisplayName
	if name == "" {
		name = user.Name
	}

	b.nameMu.Lock()
	b.nameCache[userID] = name
	b.nameMu.Unlock()
	return name
}

// mentionsBot reports whether the text mentions the bot user.
func (b *Bot) mentionsBot(text string) bool {
	return strings.Contains(text, fmt.Sprintf("<@%s>", b.botUserID))
}

// stripBotMention removes the bot mention from message text.
func (b *Bot) stripBotMention(text string) string {
	mention := fmt.Sprintf("<@%s>", b.botUserID)
	text = strings.Replace(text, mention, "", 1)
	return strings.TrimSpace(text)
}

// GetBotUserID returns the bot's Slack user ID.
func (b *Bot) GetBotUserID() string {
	return b.botUserID
}
