// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Возвращает снимок прогресса участника: XP, серия, количество выполнений.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery requests the progress snapshot of one user.
type GetProfileQuery struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// Now anchors the CompletedToday check (defaults to time.Now).
	Now time.Time
}

// Validate validates the query.
func (q GetProfileQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("get_profile: user_id is required")
	}
	return nil
}

// GetProfileResult contains the progress snapshot.
type GetProfileResult struct {
	// UserID is the chat-platform identifier of the user.
	UserID int64

	// XP is the accumulated experience.
	XP int64

	// Streak is the current consecutive-day streak.
	Streak int

	// BestStreak is the best streak ever reached.
	BestStreak int

	// TotalCompletions is the lifetime completion count.
	TotalCompletions int

	// LastCompletion is the time of the last credited completion, nil if none.
	LastCompletion *time.Time

	// CompletedToday is true when a completion is already credited today.
	CompletedToday bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	progressRepo progress.Repository
	location     *time.Location
}

// GetProfileHandlerConfig contains configuration for the handler.
type GetProfileHandlerConfig struct {
	// Location defines the calendar-day boundary.
	Location *time.Location
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(progressRepo progress.Repository, config GetProfileHandlerConfig) *GetProfileHandler {
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &GetProfileHandler{
		progressRepo: progressRepo,
		location:     config.Location,
	}
}

// Handle executes the get profile query.
// Returns shared.ErrUserNotFound for users with no progress record yet.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*GetProfileResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_profile: validation failed: %w", err)
	}

	userID, err := shared.NewUserID(q.UserID)
	if err != nil {
		return nil, err
	}

	p, err := h.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return &GetProfileResult{
		UserID:           q.UserID,
		XP:               p.XP.Int64(),
		Streak:           p.Streak,
		BestStreak:       p.BestStreak,
		TotalCompletions: p.TotalCompletions,
		LastCompletion:   p.LastCompletion,
		CompletedToday:   p.CompletedToday(now, h.location),
	}, nil
}
