package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT SUGGESTION COMMAND
// Принимает предложение челленджа от участника. Предложение попадает в пул
// на модерацию; публикация возможна только после /approve.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitSuggestionCommand contains a new challenge suggestion.
type SubmitSuggestionCommand struct {
	// UserID is the chat-platform identifier of the author.
	UserID int64

	// Text is the challenge text.
	Text string

	// Category is free-form (empty becomes "General").
	Category string
}

// Validate validates the command.
func (c SubmitSuggestionCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("submit_suggestion: user_id is required")
	}
	if c.Text == "" {
		return errors.New("submit_suggestion: text is required")
	}
	return nil
}

// SubmitSuggestionResult contains the stored suggestion.
type SubmitSuggestionResult struct {
	// SuggestionID is the storage-assigned identifier.
	SuggestionID int64

	// Text is the normalized challenge text.
	Text string

	// Category is the normalized category.
	Category string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitSuggestionHandler handles the SubmitSuggestionCommand.
type SubmitSuggestionHandler struct {
	suggestionRepo challenge.Repository
	routingRepo    routing.Repository
	eventPublisher shared.EventPublisher
}

// NewSubmitSuggestionHandler creates a new SubmitSuggestionHandler.
func NewSubmitSuggestionHandler(
	suggestionRepo challenge.Repository,
	routingRepo routing.Repository,
	eventPublisher shared.EventPublisher,
) *SubmitSuggestionHandler {
	return &SubmitSuggestionHandler{
		suggestionRepo: suggestionRepo,
		routingRepo:    routingRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the submit suggestion command.
func (h *SubmitSuggestionHandler) Handle(ctx context.Context, cmd SubmitSuggestionCommand) (*SubmitSuggestionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("submit_suggestion: validation failed: %w", err)
	}

	// Suggestions are rejected until /setup ran: without a suggestion
	// channel moderators would never see them.
	cfg, err := h.routingRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("submit_suggestion: %w", err)
	}
	if !cfg.SuggestionChannel.IsValid() {
		return nil, shared.ErrChannelsNotConfigured
	}

	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	suggestion, err := challenge.NewSuggestion(cmd.Text, cmd.Category, userID)
	if err != nil {
		return nil, fmt.Errorf("submit_suggestion: %w", err)
	}

	if err := h.suggestionRepo.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("submit_suggestion: failed to store suggestion: %w", err)
	}

	if h.eventPublisher != nil {
		event := shared.NewSuggestionSubmittedEvent(suggestion.ID, suggestion.Text, suggestion.Category, cmd.UserID)
		_ = h.eventPublisher.Publish(event)
	}

	return &SubmitSuggestionResult{
		SuggestionID: suggestion.ID,
		Text:         suggestion.Text,
		Category:     suggestion.Category,
	}, nil
}
