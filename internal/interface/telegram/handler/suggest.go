package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGEST HANDLER
// Handles /suggest - submits a community challenge suggestion.
// Syntax: /suggest text | category (category optional).
// ══════════════════════════════════════════════════════════════════════════════

// SuggestHandler handles the /suggest command.
type SuggestHandler struct {
	submitSuggestion *command.SubmitSuggestionHandler
}

// NewSuggestHandler creates a new SuggestHandler with dependencies.
func NewSuggestHandler(submitSuggestion *command.SubmitSuggestionHandler) *SuggestHandler {
	return &SuggestHandler{submitSuggestion: submitSuggestion}
}

// SuggestRequest contains the parsed /suggest command data.
type SuggestRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// Args is the raw text after the command.
	Args string
}

// Handle processes the /suggest command.
func (h *SuggestHandler) Handle(ctx context.Context, req SuggestRequest) (*Response, error) {
	text, category := parseSuggestArgs(req.Args)
	if text == "" {
		return &Response{Text: presenter.SuggestUsage, IsError: true}, nil
	}

	result, err := h.submitSuggestion.Handle(ctx, command.SubmitSuggestionCommand{
		UserID:   req.TelegramID,
		Text:     text,
		Category: category,
	})
	if errors.Is(err, shared.ErrChannelsNotConfigured) {
		return &Response{Text: presenter.ErrChannelsNotConfigured, IsError: true}, nil
	}
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	return &Response{Text: presenter.SuggestionAccepted(result.SuggestionID, result.Category)}, nil
}

// parseSuggestArgs splits "text | category" into its parts.
func parseSuggestArgs(args string) (text, category string) {
	text, category, found := strings.Cut(args, "|")
	text = strings.TrimSpace(text)
	if !found {
		return text, ""
	}
	return text, strings.TrimSpace(category)
}
