// Package routing содержит конфигурацию маршрутизации сообщений бота:
// соответствие логических ролей каналов их идентификаторам в чат-платформе.
package routing

import (
	"context"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ChannelConfig - соответствие ролей каналов их идентификаторам.
// Загружается один раз командой /setup и хранится в Postgres как JSONB.
type ChannelConfig struct {
	// ChallengeChannel - канал для публикации дневного челленджа.
	ChallengeChannel shared.ChannelID `json:"challenge_channel"`

	// ResponseChannel - канал для ответов участников.
	ResponseChannel shared.ChannelID `json:"response_channel"`

	// SuggestionChannel - канал для уведомлений о новых предложениях.
	SuggestionChannel shared.ChannelID `json:"suggestion_channel"`
}

// NewChannelConfig создаёт конфигурацию с валидацией всех каналов.
func NewChannelConfig(challenge, response, suggestion int64) (*ChannelConfig, error) {
	challengeID, err := shared.NewChannelID(challenge)
	if err != nil {
		return nil, err
	}
	responseID, err := shared.NewChannelID(response)
	if err != nil {
		return nil, err
	}
	suggestionID, err := shared.NewChannelID(suggestion)
	if err != nil {
		return nil, err
	}

	return &ChannelConfig{
		ChallengeChannel:  challengeID,
		ResponseChannel:   responseID,
		SuggestionChannel: suggestionID,
	}, nil
}

// IsComplete проверяет, что все роли каналов настроены.
func (c *ChannelConfig) IsComplete() bool {
	return c != nil &&
		c.ChallengeChannel.IsValid() &&
		c.ResponseChannel.IsValid() &&
		c.SuggestionChannel.IsValid()
}

// Repository определяет контракт хранилища конфигурации каналов.
// Реализация находится в infrastructure/persistence/postgres.
type Repository interface {
	// Load возвращает сохранённую конфигурацию.
	// Возвращает shared.ErrChannelsNotConfigured, если /setup ещё не выполнялся.
	Load(ctx context.Context) (*ChannelConfig, error)

	// Save сохраняет конфигурацию, перезаписывая предыдущую.
	Save(ctx context.Context, cfg *ChannelConfig) error
}
