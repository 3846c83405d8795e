// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SUGGESTION SUBMITTED HANDLER
// Уведомляет канал модерации о новом предложении челленджа, чтобы
// администратор мог одобрить его командой /approve.
// ═══════════════════════════════════════════════════════════════════════════

// MessageSender posts notification messages to a chat.
type MessageSender interface {
	SendHTML(ctx context.Context, chatID int64, html string) error
}

// OnSuggestionSubmittedHandler announces new suggestions in the
// suggestion channel.
type OnSuggestionSubmittedHandler struct {
	routingRepo routing.Repository
	sender      MessageSender
	logger      *slog.Logger

	timeout time.Duration
}

// NewOnSuggestionSubmittedHandler создаёт новый обработчик.
func NewOnSuggestionSubmittedHandler(
	routingRepo routing.Repository,
	sender MessageSender,
	logger *slog.Logger,
) *OnSuggestionSubmittedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnSuggestionSubmittedHandler{
		routingRepo: routingRepo,
		sender:      sender,
		logger:      logger.With("handler", "on_suggestion_submitted"),
		timeout:     30 * time.Second,
	}
}

// Handle обрабатывает событие подачи предложения.
// Реализует интерфейс shared.EventHandler.
func (h *OnSuggestionSubmittedHandler) Handle(event shared.Event) error {
	submitted, ok := event.(shared.SuggestionSubmittedEvent)
	if !ok {
		h.logger.Warn("received non-SuggestionSubmittedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	cfg, err := h.routingRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("on_suggestion_submitted: load channel config: %w", err)
	}
	if !cfg.SuggestionChannel.IsValid() {
		return shared.ErrChannelsNotConfigured
	}

	text := fmt.Sprintf(
		"💡 <b>Новое предложение #%d</b>\n\n%s\n\n🏷 Категория: <i>%s</i>\nАвтор: %d\n\nОдобрить: /approve %d",
		submitted.SuggestionID,
		html.EscapeString(submitted.Text),
		html.EscapeString(submitted.Category),
		submitted.SubmittedBy,
		submitted.SuggestionID,
	)

	if err := h.sender.SendHTML(ctx, cfg.SuggestionChannel.Int64(), text); err != nil {
		return fmt.Errorf("on_suggestion_submitted: notify channel: %w", err)
	}

	h.logger.Info("suggestion announced",
		"suggestion_id", submitted.SuggestionID,
		"channel_id", cfg.SuggestionChannel.Int64(),
	)
	return nil
}
