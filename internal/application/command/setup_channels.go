package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SETUP CHANNELS COMMAND
// Сохраняет конфигурацию каналов бота (/setup). Перезаписывает предыдущую.
// ══════════════════════════════════════════════════════════════════════════════

// SetupChannelsCommand contains the channel IDs for each bot role.
type SetupChannelsCommand struct {
	// ChallengeChannelID is where the daily challenge is posted.
	ChallengeChannelID int64

	// ResponseChannelID is where members post their results.
	ResponseChannelID int64

	// SuggestionChannelID is where new suggestions are announced.
	SuggestionChannelID int64

	// ConfiguredBy is the admin who ran the setup.
	ConfiguredBy int64
}

// Validate validates the command.
func (c SetupChannelsCommand) Validate() error {
	if c.ConfiguredBy <= 0 {
		return errors.New("setup_channels: configured_by is required")
	}
	return nil
}

// SetupChannelsResult confirms the stored configuration.
type SetupChannelsResult struct {
	Config *routing.ChannelConfig
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SetupChannelsHandler handles the SetupChannelsCommand.
type SetupChannelsHandler struct {
	routingRepo    routing.Repository
	eventPublisher shared.EventPublisher
}

// NewSetupChannelsHandler creates a new SetupChannelsHandler.
func NewSetupChannelsHandler(
	routingRepo routing.Repository,
	eventPublisher shared.EventPublisher,
) *SetupChannelsHandler {
	return &SetupChannelsHandler{
		routingRepo:    routingRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the setup channels command.
func (h *SetupChannelsHandler) Handle(ctx context.Context, cmd SetupChannelsCommand) (*SetupChannelsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("setup_channels: validation failed: %w", err)
	}

	cfg, err := routing.NewChannelConfig(cmd.ChallengeChannelID, cmd.ResponseChannelID, cmd.SuggestionChannelID)
	if err != nil {
		return nil, fmt.Errorf("setup_channels: %w", err)
	}

	if err := h.routingRepo.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("setup_channels: failed to save config: %w", err)
	}

	if h.eventPublisher != nil {
		event := shared.NewChannelsConfiguredEvent(
			cmd.ChallengeChannelID,
			cmd.ResponseChannelID,
			cmd.SuggestionChannelID,
			cmd.ConfiguredBy,
		)
		_ = h.eventPublisher.Publish(event)
	}

	return &SetupChannelsResult{Config: cfg}, nil
}
