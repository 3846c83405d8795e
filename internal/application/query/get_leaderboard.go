package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Возвращает топ-N участников по XP. Равные XP упорядочиваются по user_id
// по возрастанию, чтобы порядок был детерминированным.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultLeaderboardLimit is used when the query does not set a limit.
	DefaultLeaderboardLimit = 10

	// MaxLeaderboardLimit caps the amount of rows a single query returns.
	MaxLeaderboardLimit = 100
)

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// Limit is the number of entries (default 10, capped at 100).
	Limit int

	// BypassCache forces a fresh read from storage.
	BypassCache bool
}

// Validate validates the query and normalizes the limit.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("get_leaderboard: limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > MaxLeaderboardLimit {
		q.Limit = MaxLeaderboardLimit
	}
	return nil
}

// GetLeaderboardResult contains the ranked entries.
type GetLeaderboardResult struct {
	// Entries are the leaderboard rows, best first.
	Entries []progress.LeaderboardEntry

	// TotalUsers is the total number of progress records.
	TotalUsers int

	// FromCache is true when the entries came from the cache.
	FromCache bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	progressRepo progress.Repository
	cache        progress.LeaderboardCache
	logger       *slog.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// The cache is optional; a nil cache means every read hits storage.
func NewGetLeaderboardHandler(
	progressRepo progress.Repository,
	cache progress.LeaderboardCache,
	logger *slog.Logger,
) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &GetLeaderboardHandler{
		progressRepo: progressRepo,
		cache:        cache,
		logger:       logger.With("query", "get_leaderboard"),
	}
}

// Handle executes the get leaderboard query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	total, err := h.progressRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: failed to count users: %w", err)
	}

	if h.cache != nil && !q.BypassCache {
		entries, err := h.cache.Get(ctx, q.Limit)
		if err != nil {
			h.logger.Warn("leaderboard cache read failed", "error", err)
		} else if entries != nil {
			return &GetLeaderboardResult{Entries: entries, TotalUsers: total, FromCache: true}, nil
		}
	}

	top, err := h.progressRepo.Top(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: failed to read top: %w", err)
	}

	entries := make([]progress.LeaderboardEntry, 0, len(top))
	for i, p := range top {
		entries = append(entries, progress.LeaderboardEntry{
			Rank:             shared.Rank(i + 1),
			UserID:           p.UserID,
			XP:               p.XP,
			Streak:           p.Streak,
			TotalCompletions: p.TotalCompletions,
		})
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, q.Limit, entries); err != nil {
			h.logger.Warn("leaderboard cache write failed", "error", err)
		}
	}

	return &GetLeaderboardResult{Entries: entries, TotalUsers: total}, nil
}
