// Package jobs contains implementations of scheduled jobs for Challenge Hub.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST DAILY CHALLENGE JOB
// ══════════════════════════════════════════════════════════════════════════════

// MessageSender posts announcement messages to a chat.
type MessageSender interface {
	SendHTML(ctx context.Context, chatID int64, html string) error
}

// PostDailyChallengeJob runs the daily cycle: take one approved community
// suggestion, or fall back to a generated challenge, and post it to the
// challenge channel. Any failure ends this cycle only; the next cycle
// starts fresh.
type PostDailyChallengeJob struct {
	suggestionRepo challenge.Repository
	generator      challenge.Generator
	routingRepo    routing.Repository
	sender         MessageSender
	eventPublisher shared.EventPublisher
	logger         *slog.Logger

	config PostDailyChallengeConfig
}

// PostDailyChallengeConfig contains configuration for the daily cycle.
type PostDailyChallengeConfig struct {
	// Timeout is the maximum duration for one cycle.
	Timeout time.Duration
}

// DefaultPostDailyChallengeConfig returns sensible defaults.
func DefaultPostDailyChallengeConfig() PostDailyChallengeConfig {
	return PostDailyChallengeConfig{
		Timeout: 2 * time.Minute,
	}
}

// NewPostDailyChallengeJob creates a new daily challenge job.
func NewPostDailyChallengeJob(
	suggestionRepo challenge.Repository,
	generator challenge.Generator,
	routingRepo routing.Repository,
	sender MessageSender,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
	config PostDailyChallengeConfig,
) *PostDailyChallengeJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostDailyChallengeJob{
		suggestionRepo: suggestionRepo,
		generator:      generator,
		routingRepo:    routingRepo,
		sender:         sender,
		eventPublisher: eventPublisher,
		logger:         logger,
		config:         config,
	}
}

// Name returns the job name.
func (j *PostDailyChallengeJob) Name() string {
	return "post_daily_challenge"
}

// Description returns a human-readable description.
func (j *PostDailyChallengeJob) Description() string {
	return "Posts the daily challenge from an approved suggestion or a generated fallback"
}

// Run executes one daily cycle.
func (j *PostDailyChallengeJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	cfg, err := j.routingRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load channel config: %w", err)
	}
	if !cfg.ChallengeChannel.IsValid() {
		return shared.ErrChannelsNotConfigured
	}

	ch, err := j.pickChallenge(ctx)
	if err != nil {
		return err
	}

	if err := j.sender.SendHTML(ctx, cfg.ChallengeChannel.Int64(), renderAnnouncement(ch)); err != nil {
		return fmt.Errorf("post challenge: %w", err)
	}

	j.logger.Info("daily challenge posted",
		"source", ch.Source,
		"category", ch.Category,
	)

	if j.eventPublisher != nil {
		event := shared.NewChallengePostedEvent(ch.Text, ch.Category, string(ch.Source), ch.SubmittedBy.Int64())
		if err := j.eventPublisher.Publish(event); err != nil {
			j.logger.Warn("failed to publish challenge posted event", "error", err)
		}
	}

	return nil
}

// pickChallenge consumes an approved suggestion, falling back to the
// generator when the pool is empty.
func (j *PostDailyChallengeJob) pickChallenge(ctx context.Context) (challenge.Challenge, error) {
	s, err := j.suggestionRepo.PickAndConsumeApproved(ctx)
	if err == nil {
		j.logger.Info("using approved suggestion", "suggestion_id", s.ID)
		return challenge.FromSuggestion(s), nil
	}
	if !errors.Is(err, shared.ErrNoApprovedSuggestions) {
		return challenge.Challenge{}, fmt.Errorf("pick approved suggestion: %w", err)
	}

	j.logger.Info("no approved suggestions, generating fallback")

	ch, err := j.generator.Generate(ctx, "")
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("generate fallback: %w", err)
	}
	return ch, nil
}

// renderAnnouncement builds the HTML announcement for the challenge channel.
func renderAnnouncement(ch challenge.Challenge) string {
	text := fmt.Sprintf(
		"🔥 <b>Челлендж дня</b>\n\n%s\n\n🏷 Категория: <i>%s</i>",
		html.EscapeString(ch.Text),
		html.EscapeString(ch.Category),
	)

	if ch.Source == challenge.SourceSuggestion && ch.SubmittedBy.IsValid() {
		text += fmt.Sprintf("\n💡 Идею предложил участник %d", ch.SubmittedBy.Int64())
	}

	text += "\n\nВыполнил? Отправь /complete боту и получи бонус!"
	return text
}
