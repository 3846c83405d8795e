// Package telegram implements a Telegram Bot API client.
// The bot sends challenge announcements and command replies, long-polls
// for updates, and resolves chat/member information for admin checks.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/challenge-hub/challenge-hub-bot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Telegram client.
type ClientConfig struct {
	// Token is the Telegram Bot API token
	Token string

	// BaseURL is the Telegram Bot API base URL (default: https://api.telegram.org)
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// SendRate limits messages per chat per second
	SendRate rate.Limit

	// SendBurst is the per-chat burst allowance
	SendBurst int

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Token:   token,
		BaseURL: "https://api.telegram.org",
		Timeout: 60 * time.Second, // Must be > polling timeout (30s) + network latency
		// Telegram allows ~1 msg/sec to the same chat
		SendRate:  rate.Every(time.Second),
		SendBurst: 1,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TELEGRAM API TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Update represents a Telegram update.
type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty"`
}

// Message represents a Telegram message.
type Message struct {
	MessageID int64           `json:"message_id"`
	From      *User           `json:"from,omitempty"`
	Chat      *Chat           `json:"chat"`
	Date      int64           `json:"date"`
	Text      string          `json:"text,omitempty"`
	Entities  []MessageEntity `json:"entities,omitempty"`
}

// User represents a Telegram user.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// FullName returns the user's full name.
func (u *User) FullName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// Chat represents a Telegram chat.
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// MessageEntity represents a message entity (command, mention, etc.).
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	User   *User  `json:"user,omitempty"`
}

// ChatMember represents a member of a chat.
type ChatMember struct {
	User   *User  `json:"user"`
	Status string `json:"status"`
}

// IsAdmin reports whether the member can administer the chat.
func (m *ChatMember) IsAdmin() bool {
	return m.Status == "creator" || m.Status == "administrator"
}

// APIResponse represents a Telegram API response.
type APIResponse struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result,omitempty"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// ResponseParameters contains additional error parameters.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Telegram Bot API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier

	// Per-chat send limiters
	limiterMu sync.Mutex
	limiters  map[int64]*rate.Limiter

	// Update handling
	updateOffset int64
	updateMu     sync.Mutex
}

// NewClient creates a new Telegram client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.telegram.org"
	}
	if config.SendRate == 0 {
		config.SendRate = rate.Every(time.Second)
	}
	if config.SendBurst == 0 {
		config.SendBurst = 1
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:   config.Logger,
		retrier:  retry.TelegramRetrier(),
		limiters: make(map[int64]*rate.Limiter),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SENDING MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// SendMessageParams contains parameters for sending a message.
type SendMessageParams struct {
	ChatID              int64
	Text                string
	ParseMode           string // "HTML", "Markdown", "MarkdownV2"
	DisableNotification bool
	DisableWebPreview   bool
	ReplyToMessageID    int64
}

// SendMessage sends a text message, honoring the per-chat rate limit.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	if err := c.chatLimiter(params.ChatID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	body := map[string]interface{}{
		"chat_id": params.ChatID,
		"text":    params.Text,
	}

	if params.ParseMode != "" {
		body["parse_mode"] = params.ParseMode
	}
	if params.DisableNotification {
		body["disable_notification"] = true
	}
	if params.DisableWebPreview {
		body["disable_web_page_preview"] = true
	}
	if params.ReplyToMessageID > 0 {
		body["reply_to_message_id"] = params.ReplyToMessageID
	}

	var message Message
	if err := c.callAPI(ctx, "sendMessage", body, &message); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	return &message, nil
}

// SendText is a convenience method for sending plain text.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (*Message, error) {
	return c.SendMessage(ctx, SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

// SendHTML sends an HTML-formatted message.
func (c *Client) SendHTML(ctx context.Context, chatID int64, html string) (*Message, error) {
	return c.SendMessage(ctx, SendMessageParams{
		ChatID:    chatID,
		Text:      html,
		ParseMode: "HTML",
	})
}

// chatLimiter returns the send limiter for a chat, creating it on first use.
func (c *Client) chatLimiter(chatID int64) *rate.Limiter {
	c.limiterMu.Lock()
	defer c.limiterMu.Unlock()

	l, ok := c.limiters[chatID]
	if !ok {
		l = rate.NewLimiter(c.config.SendRate, c.config.SendBurst)
		c.limiters[chatID] = l
	}
	return l
}

// ══════════════════════════════════════════════════════════════════════════════
// GETTING UPDATES
// ══════════════════════════════════════════════════════════════════════════════

// GetUpdates fetches updates using long polling.
func (c *Client) GetUpdates(ctx context.Context, offset int64, limit int, timeout int) ([]Update, error) {
	body := map[string]interface{}{
		"timeout": timeout,
	}

	if offset > 0 {
		body["offset"] = offset
	}
	if limit > 0 {
		body["limit"] = limit
	}

	var updates []Update
	if err := c.callAPI(ctx, "getUpdates", body, &updates); err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	return updates, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT & CHAT INFO
// ══════════════════════════════════════════════════════════════════════════════

// GetMe returns information about the bot.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.callAPI(ctx, "getMe", nil, &user); err != nil {
		return nil, fmt.Errorf("get me: %w", err)
	}

	return &user, nil
}

// GetChat returns information about a chat.
func (c *Client) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	body := map[string]interface{}{
		"chat_id": chatID,
	}

	var chat Chat
	if err := c.callAPI(ctx, "getChat", body, &chat); err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return &chat, nil
}

// GetChatMember returns a member of a chat. Used for admin checks.
func (c *Client) GetChatMember(ctx context.Context, chatID, userID int64) (*ChatMember, error) {
	body := map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	}

	var member ChatMember
	if err := c.callAPI(ctx, "getChatMember", body, &member); err != nil {
		return nil, fmt.Errorf("get chat member: %w", err)
	}

	return &member, nil
}

// IsHealthy checks if the Bot API is reachable with the configured token.
func (c *Client) IsHealthy(ctx context.Context) bool {
	_, err := c.GetMe(ctx)
	return err == nil
}

// ══════════════════════════════════════════════════════════════════════════════
// API CALL HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// callAPI makes a call to the Telegram Bot API with bounded retries.
func (c *Client) callAPI(ctx context.Context, method string, body map[string]interface{}, result interface{}) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		err := c.doAPICall(ctx, method, body, result)
		if err == nil {
			return nil
		}

		// Flood control: wait out the server-provided delay before the
		// retrier schedules the next attempt.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			select {
			case <-ctx.Done():
				return retry.Permanent(ctx.Err())
			case <-time.After(time.Duration(apiErr.RetryAfter) * time.Second):
			}
		}

		if c.isRetryableError(err) {
			return retry.Retryable(err)
		}
		return retry.Permanent(err)
	})
}

// doAPICall performs a single API call.
func (c *Client) doAPICall(ctx context.Context, method string, body map[string]interface{}, result interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.config.BaseURL, c.config.Token, method)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.config.Debug {
		c.logger.Debug("telegram api call", "method", method)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.OK {
		apiErr := &APIError{
			Code:        apiResp.ErrorCode,
			Description: apiResp.Description,
		}
		if apiResp.Parameters != nil {
			apiErr.RetryAfter = apiResp.Parameters.RetryAfter
		}
		return apiErr
	}

	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// APIError represents a Telegram API error.
type APIError struct {
	Code        int
	Description string
	RetryAfter  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// isRetryableError checks if an error is retryable.
func (c *Client) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// Rate limited - retryable
		if apiErr.Code == 429 {
			return true
		}
		// Server errors - retryable
		if apiErr.Code >= 500 {
			return true
		}
		// Client errors - generally not retryable
		if apiErr.Code >= 400 && apiErr.Code < 500 {
			return false
		}
	}

	// Network errors are retryable
	errStr := err.Error()
	for _, s := range []string{"timeout", "connection refused", "temporary", "reset"} {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

// IsChatNotFound checks if the error indicates the chat does not exist.
func IsChatNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 && strings.Contains(strings.ToLower(apiErr.Description), "chat not found")
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// LONG POLLING RUNNER
// ══════════════════════════════════════════════════════════════════════════════

// UpdateHandler is a function that handles a Telegram update.
type UpdateHandler func(ctx context.Context, update *Update) error

// StartPolling starts long polling for updates. It returns when the
// context is cancelled.
func (c *Client) StartPolling(ctx context.Context, handler UpdateHandler) error {
	c.logger.Info("starting telegram long polling")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping telegram long polling")
			return ctx.Err()
		default:
		}

		c.updateMu.Lock()
		offset := c.updateOffset
		c.updateMu.Unlock()

		updates, err := c.GetUpdates(ctx, offset, 100, 30)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("failed to get updates", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			c.updateMu.Lock()
			if update.UpdateID >= c.updateOffset {
				c.updateOffset = update.UpdateID + 1
			}
			c.updateMu.Unlock()

			if err := handler(ctx, &update); err != nil {
				c.logger.Error("failed to handle update",
					"update_id", update.UpdateID,
					"error", err,
				)
			}
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// UTILITY METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ExtractCommand extracts the command from a message (without the /).
func ExtractCommand(msg *Message) string {
	if msg == nil || msg.Text == "" {
		return ""
	}

	for _, entity := range msg.Entities {
		if entity.Type == "bot_command" && entity.Offset == 0 {
			cmd := msg.Text[1:entity.Length] // Skip the /
			// Remove bot username if present (@botname)
			if at := strings.IndexByte(cmd, '@'); at >= 0 {
				return cmd[:at]
			}
			return cmd
		}
	}

	return ""
}

// ExtractCommandArgs extracts arguments after the command.
func ExtractCommandArgs(msg *Message) string {
	if msg == nil || msg.Text == "" {
		return ""
	}

	for _, entity := range msg.Entities {
		if entity.Type == "bot_command" && entity.Offset == 0 {
			if entity.Length < len(msg.Text) {
				return strings.TrimLeft(msg.Text[entity.Length:], " ")
			}
		}
	}

	return ""
}

// IsPrivateChat checks if the message is from a private chat.
func IsPrivateChat(msg *Message) bool {
	return msg != nil && msg.Chat != nil && msg.Chat.Type == "private"
}

// IsGroupChat checks if the message is from a group chat.
func IsGroupChat(msg *Message) bool {
	if msg == nil || msg.Chat == nil {
		return false
	}
	return msg.Chat.Type == "group" || msg.Chat.Type == "supergroup"
}
