package handler

import (
	"context"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// PENDING HANDLER
// Handles /pending - lists suggestions awaiting moderation.
// ══════════════════════════════════════════════════════════════════════════════

// pendingListLimit caps the /pending reply to one readable message.
const pendingListLimit = 20

// PendingHandler handles the /pending command.
type PendingHandler struct {
	suggestionRepo challenge.Repository
}

// NewPendingHandler creates a new PendingHandler with dependencies.
func NewPendingHandler(suggestionRepo challenge.Repository) *PendingHandler {
	return &PendingHandler{suggestionRepo: suggestionRepo}
}

// PendingRequest contains the parsed /pending command data.
type PendingRequest struct {
	// TelegramID is the admin's Telegram ID.
	TelegramID int64
}

// Handle processes the /pending command.
func (h *PendingHandler) Handle(ctx context.Context, req PendingRequest) (*Response, error) {
	suggestions, err := h.suggestionRepo.ListPending(ctx, pendingListLimit)
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	return &Response{Text: presenter.PendingList(suggestions)}, nil
}
