package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE HANDLER
// Handles /challenge - generates a one-off challenge on demand.
// Nothing is persisted; the daily post is driven by the scheduler.
// ══════════════════════════════════════════════════════════════════════════════

// ChallengeHandler handles the /challenge command.
type ChallengeHandler struct {
	generator challenge.Generator
}

// NewChallengeHandler creates a new ChallengeHandler with dependencies.
func NewChallengeHandler(generator challenge.Generator) *ChallengeHandler {
	return &ChallengeHandler{generator: generator}
}

// ChallengeRequest contains the parsed /challenge command data.
type ChallengeRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// Args is the raw command argument (optional category).
	Args string
}

// Handle processes the /challenge command.
func (h *ChallengeHandler) Handle(ctx context.Context, req ChallengeRequest) (*Response, error) {
	category := strings.TrimSpace(req.Args)
	if category != "" && !challenge.IsKnownCategory(category) {
		return &Response{Text: presenter.UnknownCategory(), IsError: true}, nil
	}

	ch, err := h.generator.Generate(ctx, category)
	if errors.Is(err, shared.ErrGenerationFailed) {
		return &Response{Text: presenter.GenerationFailed, IsError: true}, nil
	}
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	return &Response{Text: presenter.ChallengePreview(ch)}, nil
}
