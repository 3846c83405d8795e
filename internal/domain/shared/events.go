// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"strconv"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the domain.
const (
	// Progress events
	EventXPGained           EventType = "progress.xp_gained"
	EventCompletionRecorded EventType = "progress.completion_recorded"
	EventStreakBroken       EventType = "progress.streak_broken"

	// Challenge events
	EventSuggestionSubmitted EventType = "challenge.suggestion_submitted"
	EventSuggestionApproved  EventType = "challenge.suggestion_approved"
	EventChallengePosted     EventType = "challenge.posted"

	// Routing events
	EventChannelsConfigured EventType = "routing.channels_configured"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// XPGainedEvent is emitted when a user gains XP.
type XPGainedEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Amount   int64  `json:"amount"`
	NewTotal int64  `json:"new_total"`
	Source   string `json:"source"` // e.g., "completion_bonus", "manual"
}

// Payload implements Event interface.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":   e.UserID,
		"amount":    e.Amount,
		"new_total": e.NewTotal,
		"source":    e.Source,
	}
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(userID, amount, newTotal int64, source string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, formatUserID(userID)),
		UserID:    userID,
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// CompletionRecordedEvent is emitted when a daily completion is credited.
type CompletionRecordedEvent struct {
	BaseEvent
	UserID           int64 `json:"user_id"`
	Streak           int   `json:"streak"`
	TotalCompletions int   `json:"total_completions"`
	XPAwarded        int64 `json:"xp_awarded"`
}

// Payload implements Event interface.
func (e CompletionRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":           e.UserID,
		"streak":            e.Streak,
		"total_completions": e.TotalCompletions,
		"xp_awarded":        e.XPAwarded,
	}
}

// NewCompletionRecordedEvent creates a new CompletionRecordedEvent.
func NewCompletionRecordedEvent(userID int64, streak, totalCompletions int, xpAwarded int64) CompletionRecordedEvent {
	return CompletionRecordedEvent{
		BaseEvent:        NewBaseEvent(EventCompletionRecorded, formatUserID(userID)),
		UserID:           userID,
		Streak:           streak,
		TotalCompletions: totalCompletions,
		XPAwarded:        xpAwarded,
	}
}

// StreakBrokenEvent is emitted when a completion resets a streak.
type StreakBrokenEvent struct {
	BaseEvent
	UserID         int64 `json:"user_id"`
	PreviousStreak int   `json:"previous_streak"`
	DaysMissed     int   `json:"days_missed"`
}

// Payload implements Event interface.
func (e StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"previous_streak": e.PreviousStreak,
		"days_missed":     e.DaysMissed,
	}
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(userID int64, previousStreak, daysMissed int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, formatUserID(userID)),
		UserID:         userID,
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Challenge Events
// ═══════════════════════════════════════════════════════════════════════════

// SuggestionSubmittedEvent is emitted when a user submits a challenge suggestion.
type SuggestionSubmittedEvent struct {
	BaseEvent
	SuggestionID int64  `json:"suggestion_id"`
	Text         string `json:"text"`
	Category     string `json:"category"`
	SubmittedBy  int64  `json:"submitted_by"`
}

// Payload implements Event interface.
func (e SuggestionSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"suggestion_id": e.SuggestionID,
		"text":          e.Text,
		"category":      e.Category,
		"submitted_by":  e.SubmittedBy,
	}
}

// NewSuggestionSubmittedEvent creates a new SuggestionSubmittedEvent.
func NewSuggestionSubmittedEvent(suggestionID int64, text, category string, submittedBy int64) SuggestionSubmittedEvent {
	return SuggestionSubmittedEvent{
		BaseEvent:    NewBaseEvent(EventSuggestionSubmitted, formatSuggestionID(suggestionID)),
		SuggestionID: suggestionID,
		Text:         text,
		Category:     category,
		SubmittedBy:  submittedBy,
	}
}

// SuggestionApprovedEvent is emitted when an admin approves a suggestion.
type SuggestionApprovedEvent struct {
	BaseEvent
	SuggestionID int64 `json:"suggestion_id"`
	ApprovedBy   int64 `json:"approved_by"`
}

// Payload implements Event interface.
func (e SuggestionApprovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"suggestion_id": e.SuggestionID,
		"approved_by":   e.ApprovedBy,
	}
}

// NewSuggestionApprovedEvent creates a new SuggestionApprovedEvent.
func NewSuggestionApprovedEvent(suggestionID, approvedBy int64) SuggestionApprovedEvent {
	return SuggestionApprovedEvent{
		BaseEvent:    NewBaseEvent(EventSuggestionApproved, formatSuggestionID(suggestionID)),
		SuggestionID: suggestionID,
		ApprovedBy:   approvedBy,
	}
}

// ChallengePostedEvent is emitted when the daily challenge goes out.
type ChallengePostedEvent struct {
	BaseEvent
	Text        string `json:"text"`
	Category    string `json:"category"`
	Source      string `json:"source"` // "suggestion" or "generated"
	SubmittedBy int64  `json:"submitted_by,omitempty"`
}

// Payload implements Event interface.
func (e ChallengePostedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"text":         e.Text,
		"category":     e.Category,
		"source":       e.Source,
		"submitted_by": e.SubmittedBy,
	}
}

// NewChallengePostedEvent creates a new ChallengePostedEvent.
func NewChallengePostedEvent(text, category, source string, submittedBy int64) ChallengePostedEvent {
	return ChallengePostedEvent{
		BaseEvent:   NewBaseEvent(EventChallengePosted, "daily"),
		Text:        text,
		Category:    category,
		Source:      source,
		SubmittedBy: submittedBy,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Routing Events
// ═══════════════════════════════════════════════════════════════════════════

// ChannelsConfiguredEvent is emitted when an admin completes /setup.
type ChannelsConfiguredEvent struct {
	BaseEvent
	ChallengeChannel  int64 `json:"challenge_channel"`
	ResponseChannel   int64 `json:"response_channel"`
	SuggestionChannel int64 `json:"suggestion_channel"`
	ConfiguredBy      int64 `json:"configured_by"`
}

// Payload implements Event interface.
func (e ChannelsConfiguredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"challenge_channel":  e.ChallengeChannel,
		"response_channel":   e.ResponseChannel,
		"suggestion_channel": e.SuggestionChannel,
		"configured_by":      e.ConfiguredBy,
	}
}

// NewChannelsConfiguredEvent creates a new ChannelsConfiguredEvent.
func NewChannelsConfiguredEvent(challengeCh, responseCh, suggestionCh, configuredBy int64) ChannelsConfiguredEvent {
	return ChannelsConfiguredEvent{
		BaseEvent:         NewBaseEvent(EventChannelsConfigured, "routing"),
		ChallengeChannel:  challengeCh,
		ResponseChannel:   responseCh,
		SuggestionChannel: suggestionCh,
		ConfiguredBy:      configuredBy,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

func formatUserID(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func formatSuggestionID(id int64) string {
	return "suggestion:" + strconv.FormatInt(id, 10)
}
