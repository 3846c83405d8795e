// Package shared contains common domain types, errors, and events used across
// all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progress", "challenge", "routing"
	Op      string // Operation that failed, e.g., "Record", "Approve"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Progress domain errors
var (
	ErrUserNotFound     = NewDomainError("progress", "Find", ErrNotFound, "user progress not found")
	ErrInvalidUserID    = NewDomainError("progress", "Validate", ErrInvalidID, "invalid user ID")
	ErrNegativeXP       = NewDomainError("progress", "Validate", ErrNegativeValue, "XP amount cannot be negative")
	ErrAlreadyCompleted = NewDomainError("progress", "RecordCompletion", ErrAlreadyProcessed, "completion already recorded today")
	ErrInvalidLimit     = NewDomainError("progress", "Leaderboard", ErrInvalidInput, "limit must be positive")
)

// Challenge domain errors
var (
	ErrSuggestionNotFound    = NewDomainError("challenge", "Find", ErrNotFound, "suggestion not found")
	ErrNoApprovedSuggestions = NewDomainError("challenge", "Pick", ErrNotFound, "no approved suggestions available")
	ErrEmptyChallengeText    = NewDomainError("challenge", "Validate", ErrEmptyValue, "challenge text cannot be empty")
	ErrGenerationFailed      = NewDomainError("challenge", "Generate", ErrExternalService, "challenge generation failed")
)

// Routing domain errors
var (
	ErrChannelsNotConfigured = NewDomainError("routing", "Load", ErrNotFound, "channel configuration not set")
	ErrInvalidChannelID      = NewDomainError("routing", "Validate", ErrInvalidID, "invalid channel ID")
)

// External service errors
var (
	ErrGenAPIUnavailable     = NewDomainError("genai", "Request", ErrServiceUnavailable, "generative API is unavailable")
	ErrGenAPIRateLimited     = NewDomainError("genai", "Request", ErrRateLimited, "generative API rate limit exceeded")
	ErrGenAPITimeout         = NewDomainError("genai", "Request", ErrTimeout, "generative API request timeout")
	ErrGenAPIInvalidResponse = NewDomainError("genai", "Parse", ErrInvalidFormat, "invalid response from generative API")
	ErrTelegramAPIFailed     = NewDomainError("telegram", "Send", ErrExternalService, "Telegram API request failed")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
