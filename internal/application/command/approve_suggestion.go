package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPROVE SUGGESTION COMMAND
// Одобряет предложение челленджа. Неизвестный идентификатор возвращает
// явную ошибку ErrSuggestionNotFound; повторное одобрение идемпотентно.
// ══════════════════════════════════════════════════════════════════════════════

// ApproveSuggestionCommand contains the suggestion to approve.
type ApproveSuggestionCommand struct {
	// SuggestionID is the storage identifier of the suggestion.
	SuggestionID int64

	// ApprovedBy is the chat-platform identifier of the approving admin.
	ApprovedBy int64
}

// Validate validates the command.
func (c ApproveSuggestionCommand) Validate() error {
	if c.SuggestionID <= 0 {
		return errors.New("approve_suggestion: suggestion_id is required")
	}
	if c.ApprovedBy <= 0 {
		return errors.New("approve_suggestion: approved_by is required")
	}
	return nil
}

// ApproveSuggestionResult contains the approved suggestion.
type ApproveSuggestionResult struct {
	// SuggestionID is the storage identifier of the suggestion.
	SuggestionID int64

	// Text is the challenge text.
	Text string

	// Category is the challenge category.
	Category string

	// SubmittedBy is the author of the suggestion.
	SubmittedBy int64

	// AlreadyApproved is true when the suggestion was approved earlier.
	AlreadyApproved bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ApproveSuggestionHandler handles the ApproveSuggestionCommand.
type ApproveSuggestionHandler struct {
	suggestionRepo challenge.Repository
	eventPublisher shared.EventPublisher
}

// NewApproveSuggestionHandler creates a new ApproveSuggestionHandler.
func NewApproveSuggestionHandler(
	suggestionRepo challenge.Repository,
	eventPublisher shared.EventPublisher,
) *ApproveSuggestionHandler {
	return &ApproveSuggestionHandler{
		suggestionRepo: suggestionRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the approve suggestion command.
func (h *ApproveSuggestionHandler) Handle(ctx context.Context, cmd ApproveSuggestionCommand) (*ApproveSuggestionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("approve_suggestion: validation failed: %w", err)
	}

	suggestion, err := h.suggestionRepo.GetByID(ctx, cmd.SuggestionID)
	if err != nil {
		// ErrSuggestionNotFound passes through untouched so callers can
		// report the unknown ID to the admin.
		return nil, err
	}

	result := &ApproveSuggestionResult{
		SuggestionID: suggestion.ID,
		Text:         suggestion.Text,
		Category:     suggestion.Category,
		SubmittedBy:  suggestion.SubmittedBy.Int64(),
	}

	if suggestion.Approved {
		result.AlreadyApproved = true
		return result, nil
	}

	if err := h.suggestionRepo.Approve(ctx, cmd.SuggestionID); err != nil {
		return nil, fmt.Errorf("approve_suggestion: failed to approve: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewSuggestionApprovedEvent(cmd.SuggestionID, cmd.ApprovedBy))
	}

	return result, nil
}
