// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD COMPLETION COMMAND
// Засчитывает выполнение дневного челленджа: бонус XP, обновление серии.
// Повторное выполнение в тот же календарный день распознаётся и не меняет
// состояние - это штатный исход, а не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// RecordCompletionCommand contains the data to credit a daily completion.
type RecordCompletionCommand struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// Timestamp is when the completion occurred (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c RecordCompletionCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("record_completion: user_id is required")
	}
	return nil
}

// RecordCompletionResult contains the outcome of crediting a completion.
type RecordCompletionResult struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// AlreadyCompleted is true when a completion for the same calendar day
	// was already credited. No state changed in that case.
	AlreadyCompleted bool

	// XPAwarded is the bonus credited (zero when AlreadyCompleted).
	XPAwarded int64

	// TotalXP is the user's XP after the operation.
	TotalXP int64

	// Streak is the current streak after the operation.
	Streak int

	// BestStreak is the best streak ever reached.
	BestStreak int

	// TotalCompletions is the lifetime completion count.
	TotalCompletions int

	// StreakBroken is true when this completion reset a previous streak.
	StreakBroken bool

	// PreviousStreak is the streak before the reset (when StreakBroken).
	PreviousStreak int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordCompletionHandler handles the RecordCompletionCommand.
type RecordCompletionHandler struct {
	progressRepo   progress.Repository
	eventPublisher shared.EventPublisher

	location *time.Location
}

// RecordCompletionHandlerConfig contains configuration for the handler.
type RecordCompletionHandlerConfig struct {
	// Location defines the calendar-day boundary for streaks.
	Location *time.Location
}

// DefaultRecordCompletionHandlerConfig returns default configuration.
func DefaultRecordCompletionHandlerConfig() RecordCompletionHandlerConfig {
	return RecordCompletionHandlerConfig{
		Location: time.UTC,
	}
}

// NewRecordCompletionHandler creates a new RecordCompletionHandler.
func NewRecordCompletionHandler(
	progressRepo progress.Repository,
	eventPublisher shared.EventPublisher,
	config RecordCompletionHandlerConfig,
) *RecordCompletionHandler {
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &RecordCompletionHandler{
		progressRepo:   progressRepo,
		eventPublisher: eventPublisher,
		location:       config.Location,
	}
}

// Handle executes the record completion command.
func (h *RecordCompletionHandler) Handle(ctx context.Context, cmd RecordCompletionCommand) (*RecordCompletionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_completion: validation failed: %w", err)
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	p, err := h.progressRepo.GetByUserID(ctx, userID)
	if errors.Is(err, shared.ErrUserNotFound) {
		// First interaction ever: the progress record starts here.
		p, err = progress.NewUserProgress(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("record_completion: failed to load progress: %w", err)
	}

	// The observed completion instant guards the write below.
	prev := p.LastCompletion

	completion, err := p.RecordCompletion(timestamp, h.location)
	if errors.Is(err, shared.ErrAlreadyCompleted) {
		return h.alreadyCompletedResult(cmd.UserID, p), nil
	}
	if err != nil {
		return nil, fmt.Errorf("record_completion: %w", err)
	}

	// XP goes in as a delta so a concurrent grant between the load above
	// and this write is preserved.
	updated, err := h.progressRepo.ApplyCompletion(ctx, p, completion.XPAwarded, prev)
	if errors.Is(err, shared.ErrAlreadyCompleted) {
		// Параллельное выполнение успело записаться первым.
		current, gerr := h.progressRepo.GetByUserID(ctx, userID)
		if gerr != nil {
			return nil, fmt.Errorf("record_completion: failed to reload progress: %w", gerr)
		}
		return h.alreadyCompletedResult(cmd.UserID, current), nil
	}
	if err != nil {
		return nil, fmt.Errorf("record_completion: failed to save progress: %w", err)
	}

	h.publishEvents(cmd.UserID, updated, completion)

	return &RecordCompletionResult{
		UserID:           cmd.UserID,
		XPAwarded:        completion.XPAwarded,
		TotalXP:          updated.XP.Int64(),
		Streak:           completion.Streak,
		BestStreak:       updated.BestStreak,
		TotalCompletions: updated.TotalCompletions,
		StreakBroken:     completion.StreakBroken,
		PreviousStreak:   completion.PreviousStreak,
	}, nil
}

// alreadyCompletedResult renders the no-op outcome for a same-day repeat.
func (h *RecordCompletionHandler) alreadyCompletedResult(userID int64, p *progress.UserProgress) *RecordCompletionResult {
	return &RecordCompletionResult{
		UserID:           userID,
		AlreadyCompleted: true,
		TotalXP:          p.XP.Int64(),
		Streak:           p.Streak,
		BestStreak:       p.BestStreak,
		TotalCompletions: p.TotalCompletions,
	}
}

// publishEvents emits the domain events for a credited completion.
// Publish failures never fail the command.
func (h *RecordCompletionHandler) publishEvents(userID int64, p *progress.UserProgress, completion *progress.CompletionResult) {
	if h.eventPublisher == nil {
		return
	}

	if completion.StreakBroken {
		_ = h.eventPublisher.Publish(shared.NewStreakBrokenEvent(userID, completion.PreviousStreak, completion.DaysMissed))
	}

	_ = h.eventPublisher.Publish(shared.NewCompletionRecordedEvent(userID, completion.Streak, p.TotalCompletions, completion.XPAwarded))
	_ = h.eventPublisher.Publish(shared.NewXPGainedEvent(userID, completion.XPAwarded, p.XP.Int64(), "completion_bonus"))
}
