// Package genai implements the text-generation API client used for
// fallback challenges. The API speaks the common chat-completion dialect:
// a messages array in, choices with a message content out. The content is
// required to be a strict JSON challenge document.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the generation API client.
type ClientConfig struct {
	// BaseURL is the chat-completion endpoint URL
	BaseURL string

	// APIKey is the Bearer token for authentication
	APIKey string

	// Model is the model identifier, sent when non-empty
	Model string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// RateLimiterConfig for API rate limiting
	RateLimiterConfig RateLimiterConfig

	// CircuitBreakerConfig for fault tolerance
	CircuitBreakerConfig CircuitBreakerConfig

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL, apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL:              baseURL,
		APIKey:               apiKey,
		Timeout:              30 * time.Second,
		RateLimiterConfig:    DefaultRateLimiterConfig(),
		CircuitBreakerConfig: DefaultCircuitBreakerConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

const (
	systemPrompt = `You are a challenge generator for a community of makers. ` +
		`Respond with exactly one JSON object of the form ` +
		`{"challenge": "<short actionable daily challenge>", "category": "<category>"} ` +
		`and nothing else.`

	userPromptFormat = `Generate one fun daily challenge in the category %q. ` +
		`It must be doable in a single day by one person.`
)

// Client is the generation API client. It implements challenge.Generator.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *slog.Logger
	rateLimiter    *RateLimiter
	circuitBreaker *CircuitBreaker
	retrier        *retry.Retrier
}

// NewClient creates a new generation API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:         config.Logger,
		rateLimiter:    NewRateLimiter(config.RateLimiterConfig),
		circuitBreaker: NewCircuitBreaker(config.CircuitBreakerConfig),
		retrier:        retry.GenAIRetrier(),
	}
}

// Generate produces one challenge. When category is empty a random one is
// picked from the fixed set. Every failure mode, transport, status, or
// schema, surfaces as ErrGenerationFailed so callers need a single check.
func (c *Client) Generate(ctx context.Context, category string) (challenge.Challenge, error) {
	if category == "" {
		category = challenge.RandomCategory()
	}

	payload, err := c.complete(ctx, category)
	if err != nil {
		c.logger.Warn("challenge generation failed", "category", category, "error", err)
		return challenge.Challenge{}, fmt.Errorf("%w: %s", shared.ErrGenerationFailed, err)
	}

	// The model may answer with its own category; trust it only when it
	// names a known one.
	resultCategory := category
	if challenge.IsKnownCategory(payload.Category) {
		resultCategory = payload.Category
	}

	ch := challenge.Generated(payload.Challenge, resultCategory)
	if !ch.IsValid() {
		return challenge.Challenge{}, fmt.Errorf("%w: empty challenge text", shared.ErrGenerationFailed)
	}

	return ch, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// complete runs one chat completion with rate limiting, circuit breaking,
// and bounded retries.
func (c *Client) complete(ctx context.Context, category string) (*challengePayload, error) {
	if err := c.circuitBreaker.Allow(); err != nil {
		return nil, err
	}

	var payload *challengePayload
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		if err := c.rateLimiter.Allow(ctx); err != nil {
			return retry.Permanent(err)
		}

		p, err := c.doCompletion(ctx, category)
		if err != nil {
			if c.isRetryable(err) {
				return retry.Retryable(err)
			}
			return retry.Permanent(err)
		}

		payload = p
		return nil
	})
	if err != nil {
		c.circuitBreaker.RecordFailure()
		return nil, err
	}

	c.circuitBreaker.RecordSuccess()
	return payload, nil
}

// doCompletion performs a single API call.
func (c *Client) doCompletion(ctx context.Context, category string) (*challengePayload, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, category)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	if c.config.Debug {
		c.logger.Debug("generation api request", "category", category)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60 * time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		c.rateLimiter.RecordRateLimitHit(retryAfter)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("response has no choices")
	}

	return parseChallengeContent(chatResp.Choices[0].Message.Content)
}

// isRetryable checks if an error is worth another attempt.
func (c *Client) isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	// Schema violations never get better on retry; transport errors might.
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// StatusError represents a non-2xx API response.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation api status %d", e.Code)
	}
	return fmt.Sprintf("generation api status %d: %s", e.Code, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
