package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// Handles /leaderboard - shows the top users by XP.
// ══════════════════════════════════════════════════════════════════════════════

// NameResolver resolves a user ID to a display name. Empty string
// means the name could not be resolved.
type NameResolver interface {
	DisplayName(ctx context.Context, userID int64) string
}

// LeaderboardHandler handles the /leaderboard command.
type LeaderboardHandler struct {
	leaderboardQuery *query.GetLeaderboardHandler
	names            NameResolver
}

// NewLeaderboardHandler creates a new LeaderboardHandler with dependencies.
// A nil resolver shows users by their raw IDs.
func NewLeaderboardHandler(leaderboardQuery *query.GetLeaderboardHandler, names NameResolver) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardQuery: leaderboardQuery, names: names}
}

// LeaderboardRequest contains the parsed /leaderboard command data.
type LeaderboardRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// Args is the raw command argument (optional row count).
	Args string
}

// Handle processes the /leaderboard command.
func (h *LeaderboardHandler) Handle(ctx context.Context, req LeaderboardRequest) (*Response, error) {
	result, err := h.leaderboardQuery.Handle(ctx, query.GetLeaderboardQuery{
		Limit: parseLeaderboardLimit(req.Args),
	})
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	names := make(map[int64]string, len(result.Entries))
	if h.names != nil {
		for _, entry := range result.Entries {
			if name := h.names.DisplayName(ctx, entry.UserID.Int64()); name != "" {
				names[entry.UserID.Int64()] = name
			}
		}
	}

	return &Response{Text: presenter.Leaderboard(result, names)}, nil
}

// parseLeaderboardLimit parses the optional row count argument.
// Invalid input falls back to the query default.
func parseLeaderboardLimit(args string) int {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0
	}

	limit, err := strconv.Atoi(args)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}
