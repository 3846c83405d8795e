// Package handler contains Telegram command handlers.
// Each handler follows the pattern: receive update → validate → call application layer → format response.
package handler

import (
	"context"

	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// Response contains the HTML reply a handler wants to send.
type Response struct {
	// Text is the message text (HTML formatted).
	Text string

	// IsError indicates a user-facing failure reply.
	IsError bool
}

// ══════════════════════════════════════════════════════════════════════════════
// START HANDLER
// Handles /start and /help - greets the user and lists commands.
// ══════════════════════════════════════════════════════════════════════════════

// StartHandler handles the /start and /help commands.
type StartHandler struct{}

// NewStartHandler creates a new StartHandler.
func NewStartHandler() *StartHandler {
	return &StartHandler{}
}

// StartRequest contains the parsed /start command data.
type StartRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64
}

// Handle processes the /start command.
func (h *StartHandler) Handle(ctx context.Context, req StartRequest) (*Response, error) {
	return &Response{Text: presenter.WelcomeText}, nil
}
