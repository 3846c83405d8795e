// Package telegram implements the Telegram interface of the challenge bot.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/external/telegram"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT TYPES
// ══════════════════════════════════════════════════════════════════════════════

// CommandContext carries the parsed command through routing.
type CommandContext struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat the command was sent in.
	ChatID int64

	// Command is the command name without the leading "/".
	Command string

	// Args is the raw text after the command.
	Args string

	// Message is the original Telegram message.
	Message *telegram.Message
}

// HandlerFunc processes one routed command.
type HandlerFunc func(ctx context.Context, cmdCtx CommandContext) error

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// Maps command names to handlers. Unknown commands fall through to the
// default handler.
// ══════════════════════════════════════════════════════════════════════════════

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables logging of routing decisions.
	Debug bool
}

// Router routes Telegram commands to registered handlers.
type Router struct {
	config RouterConfig
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	defaultHandler HandlerFunc
}

// NewRouter creates a new router.
func NewRouter(config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Router{
		config:   config,
		logger:   config.Logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register registers a handler for a command (without the leading "/").
func (r *Router) Register(command string, handler HandlerFunc) {
	r.mu.Lock()
	r.handlers[command] = handler
	r.mu.Unlock()

	if r.config.Debug {
		r.logger.Debug("registered command handler", "command", command)
	}
}

// SetDefaultHandler sets the handler for unknown commands.
func (r *Router) SetDefaultHandler(handler HandlerFunc) {
	r.defaultHandler = handler
}

// Dispatch routes a command to its handler.
func (r *Router) Dispatch(ctx context.Context, cmdCtx CommandContext) error {
	r.mu.RLock()
	h, ok := r.handlers[cmdCtx.Command]
	r.mu.RUnlock()

	if !ok {
		if r.config.Debug {
			r.logger.Debug("no handler for command", "command", cmdCtx.Command)
		}
		if r.defaultHandler == nil {
			return nil
		}
		return r.defaultHandler(ctx, cmdCtx)
	}

	return h(ctx, cmdCtx)
}
