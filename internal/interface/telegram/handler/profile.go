package handler

import (
	"context"
	"errors"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLER
// Handles /profile - shows the user's XP, streak and completion count.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileHandler handles the /profile command.
type ProfileHandler struct {
	profileQuery *query.GetProfileHandler
}

// NewProfileHandler creates a new ProfileHandler with dependencies.
func NewProfileHandler(profileQuery *query.GetProfileHandler) *ProfileHandler {
	return &ProfileHandler{profileQuery: profileQuery}
}

// ProfileRequest contains the parsed /profile command data.
type ProfileRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64
}

// Handle processes the /profile command.
func (h *ProfileHandler) Handle(ctx context.Context, req ProfileRequest) (*Response, error) {
	result, err := h.profileQuery.Handle(ctx, query.GetProfileQuery{UserID: req.TelegramID})
	if errors.Is(err, shared.ErrUserNotFound) {
		return &Response{Text: presenter.ProfileEmpty}, nil
	}
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	return &Response{Text: presenter.ProfileCard(result)}, nil
}
