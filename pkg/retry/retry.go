// Package retry provides retry with exponential backoff and jitter for the
// external collaborators (generative API, Telegram Bot API).
// No external dependencies - uses only standard library.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryableError marks an error as worth retrying.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error to indicate it should be retried.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps an error to indicate it should not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent checks if an error is permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the backoff growth factor.
	Multiplier float64

	// JitterFactor randomizes delays (0.0 = none, 1.0 = full jitter).
	JitterFactor float64

	// OnRetry is called before each retry attempt, for logging.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// Retrier executes operations with retries.
type Retrier struct {
	config Config
}

// New creates a Retrier. Zero-value config fields fall back to defaults.
func New(config Config) *Retrier {
	def := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier < 1.0 {
		config.Multiplier = def.Multiplier
	}
	return &Retrier{config: config}
}

// Do executes the operation with retries. Only errors wrapped with Retryable
// are retried; Permanent errors and plain errors return immediately.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return errors.Unwrap(err)
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt == r.config.MaxAttempts {
			return errors.Unwrap(err)
		}

		delay := r.delayFor(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
	}

	return lastErr
}

// DoWithData is a helper for operations that return data.
func DoWithData[T any](ctx context.Context, r *Retrier, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = operation(ctx)
		return opErr
	})
	return result, err
}

// delayFor calculates the backoff delay for a given attempt with jitter.
func (r *Retrier) delayFor(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if r.config.JitterFactor > 0 {
		delay += delay * r.config.JitterFactor * (rand.Float64()*2 - 1)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// GenAIRetrier returns a Retrier tuned for generative API calls.
func GenAIRetrier() *Retrier {
	return New(Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
	})
}

// TelegramRetrier returns a Retrier tuned for Telegram Bot API calls.
func TelegramRetrier() *Retrier {
	return New(Config{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   1.5,
		JitterFactor: 0.1,
	})
}
