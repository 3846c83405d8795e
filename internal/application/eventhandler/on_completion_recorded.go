package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON COMPLETION RECORDED HANDLER
// Сбрасывает кеш рейтинга после изменения XP, чтобы /leaderboard не
// показывал устаревшие данные дольше одного чтения.
// ═══════════════════════════════════════════════════════════════════════════

// OnCompletionRecordedHandler invalidates the leaderboard cache whenever
// a completion or XP grant changes the ranking.
type OnCompletionRecordedHandler struct {
	cache  progress.LeaderboardCache
	logger *slog.Logger

	timeout time.Duration
}

// NewOnCompletionRecordedHandler создаёт новый обработчик.
func NewOnCompletionRecordedHandler(
	cache progress.LeaderboardCache,
	logger *slog.Logger,
) *OnCompletionRecordedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnCompletionRecordedHandler{
		cache:   cache,
		logger:  logger.With("handler", "on_completion_recorded"),
		timeout: 10 * time.Second,
	}
}

// Handle обрабатывает события progress.completion_recorded и
// progress.xp_gained. Реализует интерфейс shared.EventHandler.
func (h *OnCompletionRecordedHandler) Handle(event shared.Event) error {
	switch event.EventType() {
	case shared.EventCompletionRecorded, shared.EventXPGained:
	default:
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.cache.Invalidate(ctx); err != nil {
		// Stale cache entries expire by TTL anyway.
		h.logger.Warn("leaderboard cache invalidation failed", "error", err)
		return nil
	}

	h.logger.Debug("leaderboard cache invalidated", "event_type", event.EventType())
	return nil
}
