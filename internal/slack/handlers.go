// Package slack provides message and command handlers for the bot.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethanmckee/quartermaster/internal/metrics"
	"github.com/ethanmckee/quartermaster/internal/session"
	"github.com/google/uuid"
)

// ReplyGenerator produces an assistant reply from conversation turns.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, turns []session.Turn) (string, error)
}

// CapabilityChecker reports whether a user may run admin commands. Supplied
// by the platform layer; handlers only branch on the result.
type CapabilityChecker func(userID string) bool

// Handler handles incoming messages and slash commands.
type Handler struct {
	sessions  *session.Manager
	generator ReplyGenerator
	isAdmin   CapabilityChecker
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a new message handler.
func NewHandler(
	sessions *session.Manager,
	generator ReplyGenerator,
	isAdmin CapabilityChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:  sessions,
		generator: generator,
		isAdmin:   isAdmin,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleMessage processes an inbound message. Every message is recorded as
// channel context; only messages directed at the bot go through admission and
// the model call. A nil response means nothing is posted.
func (h *Handler) HandleMessage(ctx context.Context, msg *IncomingMessage) (*OutgoingMessage, error) {
	turn := session.UserTurn(msg.UserName, msg.Text)

	if !msg.IsDirected {
		h.sessions.RecordInbound(msg.ChannelID, turn)
		return nil, nil
	}

	msgID := uuid.NewString()
	logger := h.logger.With("msg_id", msgID, "user", msg.UserID, "channel", msg.ChannelID)

	decision := h.sessions.HandleInbound(msg.ChannelID, msg.UserID, turn, h.now())
	metrics.Admissions.WithLabelValues(decision.String()).Inc()

	switch decision {
	case session.RateLimited:
		logger.Info("message rate limited")
		return &OutgoingMessage{
			Text:     "You're asking too fast. Please wait a few minutes.",
			ThreadTS: msg.ThreadTS,
		}, nil
	case session.QuotaExceeded:
		logger.Info("message over usage limit")
		return &OutgoingMessage{
			Text:     fmt.Sprintf("You've reached your session limit of %d messages.", h.sessions.Stats(msg.UserID, h.now()).UsageCeiling),
			ThreadTS: msg.ThreadTS,
		}, nil
	}

	reply, err := h.generator.GenerateReply(ctx, h.sessions.Window().Snapshot(msg.ChannelID))
	if err != nil {
		// The user's turn stays recorded; no assistant turn is added for a
		// failed call.
		logger.Error("model call failed", "error", err)
		metrics.ModelCalls.WithLabelValues("error").Inc()
		return &OutgoingMessage{
			Text:     "Sorry, I couldn't come up with a reply just now. Please try again.",
			ThreadTS: msg.ThreadTS,
		}, nil
	}
	metrics.ModelCalls.WithLabelValues("ok").Inc()

	h.sessions.RecordReply(msg.ChannelID, session.AssistantTurn(reply))
	logger.Debug("reply recorded", "length", len(reply))

	return &OutgoingMessage{
		Text:     reply,
		ThreadTS: msg.ThreadTS,
	}, nil
}

// HandleCommand processes the three administrative slash commands. Responses
// are always delivered privately by the bot.
func (h *Handler) HandleCommand(ctx context.Context, cmd *CommandRequest) *CommandResponse {
	metrics.Commands.WithLabelValues(cmd.Command).Inc()

	switch cmd.Command {
	case "/reset":
		return h.handleReset(cmd)
	case "/admin-reset":
		return h.handleAdminReset(cmd)
	case "/stats":
		return h.handleStats(cmd)
	default:
		return &CommandResponse{Text: fmt.Sprintf("Unknown command: %s", cmd.Command)}
	}
}

// handleReset resets the caller's own quota and rate-limit state.
func (h *Handler) handleReset(cmd *CommandRequest) *CommandResponse {
	h.sessions.ResetUser(cmd.UserID)
	return &CommandResponse{Text: "Your session has been reset."}
}

// handleAdminReset resets another user's state, admins only. An unauthorized
// call is denied without touching any state.
func (h *Handler) handleAdminReset(cmd *CommandRequest) *CommandResponse {
	if !h.isAdmin(cmd.UserID) {
		h.logger.Info("admin-reset denied", "user", cmd.UserID)
		return &CommandResponse{Text: "You do not have permission to use this command."}
	}

	target := ParseUserMention(cmd.Text)
	if target == "" {
		return &CommandResponse{Text: "Usage: /admin-reset @user"}
	}

	h.sessions.ResetUser(target)
	h.logger.Info("admin-reset", "admin", cmd.UserID, "target", target)
	return &CommandResponse{Text: fmt.Sprintf("Reset session for %s.", FormatUserMention(target))}
}

// handleStats reports the caller's usage against each ceiling, plus the
// invoking channel's shared context size.
func (h *Handler) handleStats(cmd *CommandRequest) *CommandResponse {
	stats := h.sessions.Stats(cmd.UserID, h.now())
	window := h.sessions.Window()

	return &CommandResponse{
		Text: FormatStats(stats, window.Len(cmd.ChannelID), window.Capacity()),
	}
}
