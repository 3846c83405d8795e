// Package telegram implements the Telegram interface of the challenge bot.
// It is the entry point for all chat interactions: the polling loop, the
// command router and the middleware chain live here.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/external/telegram"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/handler"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/middleware"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// BotConfig contains configuration for the Telegram bot.
type BotConfig struct {
	// AdminIDs are Telegram user IDs allowed to run admin commands.
	AdminIDs []int64

	// HandlerTimeout bounds the processing of a single update.
	HandlerTimeout time.Duration

	// RateLimit configures the per-user command limiter.
	// Zero fields fall back to the defaults.
	RateLimit middleware.RateLimitConfig

	// Debug enables debug logging.
	Debug bool

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultBotConfig returns sensible defaults.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		HandlerTimeout: 30 * time.Second,
		Logger:         slog.Default(),
	}
}

// BotDependencies contains all application-layer dependencies of the bot.
type BotDependencies struct {
	// Commands
	RecordCompletionCmd  *command.RecordCompletionHandler
	SubmitSuggestionCmd  *command.SubmitSuggestionHandler
	ApproveSuggestionCmd *command.ApproveSuggestionHandler
	SetupChannelsCmd     *command.SetupChannelsHandler

	// Queries
	ProfileQuery     *query.GetProfileHandler
	LeaderboardQuery *query.GetLeaderboardHandler

	// Repositories
	SuggestionRepo challenge.Repository

	// Generator produces on-demand challenges for /challenge.
	Generator challenge.Generator

	// Metrics is optional; a nil value disables instrumentation.
	Metrics *middleware.Metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// ══════════════════════════════════════════════════════════════════════════════

// adminCommands require the admin gate to pass.
var adminCommands = map[string]bool{
	"setup":   true,
	"approve": true,
	"pending": true,
}

// Bot is the main Telegram bot controller.
type Bot struct {
	config BotConfig
	client *telegram.Client
	router *Router
	logger *slog.Logger

	adminGate   *middleware.AdminGate
	recovery    *middleware.Recovery
	rateLimiter *middleware.RateLimiter
	metrics     *middleware.Metrics

	running   bool
	runningMu sync.Mutex
}

// NewBot creates a fully wired Telegram bot.
func NewBot(config BotConfig, client *telegram.Client, deps BotDependencies) (*Bot, error) {
	if client == nil {
		return nil, errors.New("telegram client is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = 30 * time.Second
	}

	rlConfig := middleware.DefaultRateLimitConfig()
	if config.RateLimit.RequestsPerMinute > 0 {
		rlConfig.RequestsPerMinute = config.RateLimit.RequestsPerMinute
	}
	if config.RateLimit.BurstSize > 0 {
		rlConfig.BurstSize = config.RateLimit.BurstSize
	}

	b := &Bot{
		config:      config,
		client:      client,
		logger:      config.Logger.With("component", "bot"),
		adminGate:   middleware.NewAdminGate(config.AdminIDs, client, config.Logger),
		recovery:    middleware.NewRecovery(config.Logger),
		rateLimiter: middleware.NewRateLimiter(rlConfig),
		metrics:     deps.Metrics,
	}

	b.router = NewRouter(RouterConfig{Logger: config.Logger, Debug: config.Debug})
	b.registerHandlers(deps)

	return b, nil
}

// registerHandlers wires application handlers into the router.
func (b *Bot) registerHandlers(deps BotDependencies) {
	start := handler.NewStartHandler()
	complete := handler.NewCompleteHandler(deps.RecordCompletionCmd)
	profile := handler.NewProfileHandler(deps.ProfileQuery)
	leaderboard := handler.NewLeaderboardHandler(deps.LeaderboardQuery, &chatNameResolver{client: b.client})
	challengeCmd := handler.NewChallengeHandler(deps.Generator)
	suggest := handler.NewSuggestHandler(deps.SubmitSuggestionCmd)
	approve := handler.NewApproveHandler(deps.ApproveSuggestionCmd)
	pending := handler.NewPendingHandler(deps.SuggestionRepo)
	setup := handler.NewSetupHandler(deps.SetupChannelsCmd)

	b.router.Register("start", func(ctx context.Context, c CommandContext) error {
		resp, err := start.Handle(ctx, handler.StartRequest{TelegramID: c.TelegramID})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("help", func(ctx context.Context, c CommandContext) error {
		resp, err := start.Handle(ctx, handler.StartRequest{TelegramID: c.TelegramID})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("complete", func(ctx context.Context, c CommandContext) error {
		resp, err := complete.Handle(ctx, handler.CompleteRequest{TelegramID: c.TelegramID})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("profile", func(ctx context.Context, c CommandContext) error {
		resp, err := profile.Handle(ctx, handler.ProfileRequest{TelegramID: c.TelegramID})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("leaderboard", func(ctx context.Context, c CommandContext) error {
		resp, err := leaderboard.Handle(ctx, handler.LeaderboardRequest{TelegramID: c.TelegramID, Args: c.Args})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("challenge", func(ctx context.Context, c CommandContext) error {
		resp, err := challengeCmd.Handle(ctx, handler.ChallengeRequest{TelegramID: c.TelegramID, Args: c.Args})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("suggest", func(ctx context.Context, c CommandContext) error {
		resp, err := suggest.Handle(ctx, handler.SuggestRequest{TelegramID: c.TelegramID, Args: c.Args})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("approve", func(ctx context.Context, c CommandContext) error {
		resp, err := approve.Handle(ctx, handler.ApproveRequest{TelegramID: c.TelegramID, Args: c.Args})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("pending", func(ctx context.Context, c CommandContext) error {
		resp, err := pending.Handle(ctx, handler.PendingRequest{TelegramID: c.TelegramID})
		return b.reply(ctx, c, resp, err)
	})
	b.router.Register("setup", func(ctx context.Context, c CommandContext) error {
		resp, err := setup.Handle(ctx, handler.SetupRequest{TelegramID: c.TelegramID, Args: c.Args})
		return b.reply(ctx, c, resp, err)
	})

	b.router.SetDefaultHandler(func(ctx context.Context, c CommandContext) error {
		// Only react to unknown commands in private chats; group noise
		// is left alone.
		if c.Message != nil && !telegram.IsPrivateChat(c.Message) {
			return nil
		}
		_, err := b.client.SendHTML(ctx, c.ChatID, presenter.ErrUnknownCommand)
		return err
	})
}

// reply sends the handler response and reports the handler error.
func (b *Bot) reply(ctx context.Context, c CommandContext, resp *handler.Response, handlerErr error) error {
	if resp != nil && resp.Text != "" {
		if _, err := b.client.SendHTML(ctx, c.ChatID, resp.Text); err != nil {
			b.logger.Error("failed to send reply",
				"command", c.Command,
				"chat_id", c.ChatID,
				"error", err,
			)
			if handlerErr == nil {
				return err
			}
		}
	}
	return handlerErr
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start runs the polling loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("bot already running")
	}
	b.running = true
	b.runningMu.Unlock()

	defer func() {
		b.runningMu.Lock()
		b.running = false
		b.runningMu.Unlock()
		b.rateLimiter.Stop()
	}()

	me, err := b.client.GetMe(ctx)
	if err != nil {
		return err
	}
	b.logger.Info("bot authorized", "username", me.Username, "id", me.ID)

	return b.client.StartPolling(ctx, b.handleUpdate)
}

// handleUpdate processes one incoming update.
func (b *Bot) handleUpdate(ctx context.Context, update *telegram.Update) error {
	if b.metrics != nil {
		b.metrics.ObserveUpdate()
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	cmd := telegram.ExtractCommand(msg)
	if cmd == "" {
		return nil
	}

	if !b.rateLimiter.Allow(msg.From.ID) {
		if b.metrics != nil {
			b.metrics.ObserveRateLimited()
		}
		b.logger.Warn("command rate limited", "user_id", msg.From.ID, "command", cmd)
		return nil
	}

	cmdCtx := CommandContext{
		TelegramID: msg.From.ID,
		ChatID:     msg.Chat.ID,
		Command:    cmd,
		Args:       telegram.ExtractCommandArgs(msg),
		Message:    msg,
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.HandlerTimeout)
	defer cancel()

	if adminCommands[cmd] && !b.adminGate.IsAdmin(ctx, cmdCtx.TelegramID, cmdCtx.ChatID) {
		_, err := b.client.SendHTML(ctx, cmdCtx.ChatID, presenter.ErrAdminOnly)
		return err
	}

	started := time.Now()
	err := b.recovery.Wrap(func(ctx context.Context) error {
		return b.router.Dispatch(ctx, cmdCtx)
	})(ctx)

	if b.metrics != nil {
		b.metrics.ObserveCommand(cmd, time.Since(started), err)
	}
	if err != nil {
		b.logger.Error("command failed",
			"command", cmd,
			"user_id", cmdCtx.TelegramID,
			"error", err,
		)
	}

	// Errors are already reported to the user by the handlers; the
	// polling loop must keep going.
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// chatNameResolver resolves user display names through the Bot API.
// A user's private chat shares their user ID, so getChat works for
// anyone who has talked to the bot; everyone else falls back to the ID.
type chatNameResolver struct {
	client *telegram.Client
}

// DisplayName implements handler.NameResolver.
func (r *chatNameResolver) DisplayName(ctx context.Context, userID int64) string {
	chat, err := r.client.GetChat(ctx, userID)
	if err != nil {
		return ""
	}

	name := strings.TrimSpace(strings.TrimSpace(chat.FirstName) + " " + strings.TrimSpace(chat.LastName))
	if name == "" {
		name = chat.Username
	}
	return name
}
