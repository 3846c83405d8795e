// Package middleware contains Telegram bot middlewares for request processing.
// These middlewares form a chain that processes every incoming update before
// it reaches the handler.
package middleware

import (
	"context"
	"log/slog"

	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/external/telegram"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN GATE
// Guards admin-only commands (/setup, /approve, /pending). A user passes
// when listed in the static admin allow-list, or when Telegram reports
// them as an administrator of the group the command came from.
// ══════════════════════════════════════════════════════════════════════════════

// ChatMemberChecker resolves a user's membership status in a chat.
type ChatMemberChecker interface {
	GetChatMember(ctx context.Context, chatID, userID int64) (*telegram.ChatMember, error)
}

// AdminGate decides whether a user may run admin commands.
type AdminGate struct {
	adminIDs map[int64]struct{}
	checker  ChatMemberChecker
	logger   *slog.Logger
}

// NewAdminGate creates a new AdminGate. The checker is optional; without
// it only the static allow-list applies.
func NewAdminGate(adminIDs []int64, checker ChatMemberChecker, logger *slog.Logger) *AdminGate {
	if logger == nil {
		logger = slog.Default()
	}

	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}

	return &AdminGate{
		adminIDs: ids,
		checker:  checker,
		logger:   logger.With("middleware", "admin_gate"),
	}
}

// IsAdmin reports whether the user may run admin commands.
// chatID is the chat the command came from; private chats rely on the
// static allow-list only.
func (g *AdminGate) IsAdmin(ctx context.Context, userID, chatID int64) bool {
	if _, ok := g.adminIDs[userID]; ok {
		return true
	}

	// Group chats defer to Telegram's own admin list.
	if g.checker == nil || chatID >= 0 {
		return false
	}

	member, err := g.checker.GetChatMember(ctx, chatID, userID)
	if err != nil {
		g.logger.Warn("chat member lookup failed",
			"user_id", userID,
			"chat_id", chatID,
			"error", err,
		)
		return false
	}

	return member.IsAdmin()
}
