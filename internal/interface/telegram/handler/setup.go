package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// SETUP HANDLER
// Handles /setup - stores the bot channel configuration.
// Syntax: /setup <challenge_channel> <response_channel> <suggestion_channel>
// ══════════════════════════════════════════════════════════════════════════════

// SetupHandler handles the /setup command.
type SetupHandler struct {
	setupChannels *command.SetupChannelsHandler
}

// NewSetupHandler creates a new SetupHandler with dependencies.
func NewSetupHandler(setupChannels *command.SetupChannelsHandler) *SetupHandler {
	return &SetupHandler{setupChannels: setupChannels}
}

// SetupRequest contains the parsed /setup command data.
type SetupRequest struct {
	// TelegramID is the admin's Telegram ID.
	TelegramID int64

	// Args is the raw text after the command (three channel IDs).
	Args string
}

// Handle processes the /setup command.
func (h *SetupHandler) Handle(ctx context.Context, req SetupRequest) (*Response, error) {
	channelIDs, ok := parseSetupArgs(req.Args)
	if !ok {
		return &Response{Text: presenter.SetupUsage, IsError: true}, nil
	}

	result, err := h.setupChannels.Handle(ctx, command.SetupChannelsCommand{
		ChallengeChannelID:  channelIDs[0],
		ResponseChannelID:   channelIDs[1],
		SuggestionChannelID: channelIDs[2],
		ConfiguredBy:        req.TelegramID,
	})
	if err != nil {
		return &Response{Text: presenter.ErrInternal, IsError: true}, err
	}

	cfg := result.Config
	return &Response{Text: presenter.SetupDone(
		cfg.ChallengeChannel.Int64(),
		cfg.ResponseChannel.Int64(),
		cfg.SuggestionChannel.Int64(),
	)}, nil
}

// parseSetupArgs parses three space-separated numeric channel IDs.
func parseSetupArgs(args string) ([3]int64, bool) {
	var ids [3]int64

	fields := strings.Fields(args)
	if len(fields) != 3 {
		return ids, false
	}

	for i, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id == 0 {
			return ids, false
		}
		ids[i] = id
	}
	return ids, true
}
