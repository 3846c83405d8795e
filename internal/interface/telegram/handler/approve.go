package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPROVE HANDLER
// Handles /approve id - admin approval of a pending suggestion.
// ══════════════════════════════════════════════════════════════════════════════

// ApproveHandler handles the /approve command.
type ApproveHandler struct {
	approveSuggestion *command.ApproveSuggestionHandler
}

// NewApproveHandler creates a new ApproveHandler with dependencies.
func NewApproveHandler(approveSuggestion *command.ApproveSuggestionHandler) *ApproveHandler {
	return &ApproveHandler{approveSuggestion: approveSuggestion}
}

// ApproveRequest contains the parsed /approve command data.
type ApproveRequest struct {
	// TelegramID is the admin's Telegram ID.
	TelegramID int64

	// Args is the raw text after the command (the suggestion ID).
	Args string
}

// Handle processes the /approve command.
func (h *ApproveHandler) Handle(ctx context.Context, req ApproveRequest) (*Response, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(req.Args), 10, 64)
	if err != nil || id <= 0 {
		return &Response{Text: presenter.ApproveUsage, IsError: true}, nil
	}

	result, err := h.approveSuggestion.Handle(ctx, command.ApproveSuggestionCommand{
		SuggestionID: id,
		ApprovedBy:   req.TelegramID,
	})
	if errors.Is(err, shared.ErrSuggestionNotFound) {
		return &Response{Text: presenter.SuggestionNotFound(id), IsError: true}, nil
	}
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	return &Response{Text: presenter.SuggestionApproved(id, result.AlreadyApproved)}, nil
}
