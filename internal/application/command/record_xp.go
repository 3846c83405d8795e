package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD XP COMMAND
// Начисляет XP участнику. Запись прогресса создаётся при первом начислении.
// ══════════════════════════════════════════════════════════════════════════════

// XPSourceManual marks XP credited outside the completion flow.
const XPSourceManual = "manual"

// RecordXPCommand contains the data to credit XP to a user.
type RecordXPCommand struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// Amount is the XP to add. Zero is allowed, negative is not.
	Amount int64

	// Source describes where the XP came from (defaults to "manual").
	Source string
}

// Validate validates the command.
func (c RecordXPCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("record_xp: user_id is required")
	}
	if c.Amount < 0 {
		return errors.New("record_xp: amount cannot be negative")
	}
	return nil
}

// RecordXPResult contains the result of crediting XP.
type RecordXPResult struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// Amount is the XP that was added.
	Amount int64

	// TotalXP is the user's XP after the operation.
	TotalXP int64
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordXPHandler handles the RecordXPCommand.
type RecordXPHandler struct {
	progressRepo   progress.Repository
	eventPublisher shared.EventPublisher
}

// NewRecordXPHandler creates a new RecordXPHandler.
func NewRecordXPHandler(
	progressRepo progress.Repository,
	eventPublisher shared.EventPublisher,
) *RecordXPHandler {
	return &RecordXPHandler{
		progressRepo:   progressRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the record XP command.
func (h *RecordXPHandler) Handle(ctx context.Context, cmd RecordXPCommand) (*RecordXPResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_xp: validation failed: %w", err)
	}

	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	// AddXP is an atomic upsert, so a first-time user gets a record here.
	p, err := h.progressRepo.AddXP(ctx, userID, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("record_xp: failed to add XP: %w", err)
	}

	source := cmd.Source
	if source == "" {
		source = XPSourceManual
	}

	if h.eventPublisher != nil && cmd.Amount > 0 {
		_ = h.eventPublisher.Publish(shared.NewXPGainedEvent(cmd.UserID, cmd.Amount, p.XP.Int64(), source))
	}

	return &RecordXPResult{
		UserID:  cmd.UserID,
		Amount:  cmd.Amount,
		TotalXP: p.XP.Int64(),
	}, nil
}
