package handler

import (
	"context"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE HANDLER
// Handles /complete - credits today's challenge completion.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteHandler handles the /complete command.
type CompleteHandler struct {
	recordCompletion *command.RecordCompletionHandler
}

// NewCompleteHandler creates a new CompleteHandler with dependencies.
func NewCompleteHandler(recordCompletion *command.RecordCompletionHandler) *CompleteHandler {
	return &CompleteHandler{recordCompletion: recordCompletion}
}

// CompleteRequest contains the parsed /complete command data.
type CompleteRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64
}

// Handle processes the /complete command.
func (h *CompleteHandler) Handle(ctx context.Context, req CompleteRequest) (*Response, error) {
	result, err := h.recordCompletion.Handle(ctx, command.RecordCompletionCommand{
		UserID: req.TelegramID,
	})
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	if result.AlreadyCompleted {
		return &Response{Text: presenter.AlreadyCompleted(result.Streak)}, nil
	}

	text := presenter.CompletionCredited(
		result.XPAwarded,
		result.TotalXP,
		result.Streak,
		result.StreakBroken,
		result.PreviousStreak,
	)
	return &Response{Text: text}, nil
}
