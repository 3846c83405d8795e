package genai

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER - Token Bucket implementation
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter implements the Token Bucket algorithm to control request rate.
// Text-generation APIs bill per request and throttle aggressively, so the
// client never sends faster than the configured sustained rate.
type RateLimiter struct {
	mu sync.Mutex

	maxTokens   float64       // Maximum tokens in the bucket
	refillRate  float64       // Tokens added per second
	tokens      float64       // Current token count
	lastRefill  time.Time     // Last time tokens were added
	minInterval time.Duration // Minimum interval between requests
	lastRequest time.Time     // Time of last request
	waitTimeout time.Duration // Maximum time to wait for a token
}

// RateLimiterConfig contains configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerSecond is the maximum sustained request rate
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests that can be made in a burst
	BurstSize int

	// MinInterval is the minimum time between requests (even with tokens available)
	MinInterval time.Duration

	// WaitTimeout is the maximum time to wait for a token
	WaitTimeout time.Duration
}

// DefaultRateLimiterConfig returns conservative defaults.
// The daily cycle and /challenge are the only callers, so the bot never
// needs more than a trickle.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 0.5,
		BurstSize:         2,
		MinInterval:       500 * time.Millisecond,
		WaitTimeout:       30 * time.Second,
	}
}

// NewRateLimiter creates a new RateLimiter with the given configuration.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		maxTokens:   float64(config.BurstSize),
		refillRate:  config.RequestsPerSecond,
		tokens:      float64(config.BurstSize), // Start with full bucket
		lastRefill:  now,
		minInterval: config.MinInterval,
		lastRequest: now.Add(-config.MinInterval), // Allow immediate first request
		waitTimeout: config.WaitTimeout,
	}
}

// ErrRateLimitWaitTimeout is returned when waiting for a token exceeds the
// configured timeout.
var ErrRateLimitWaitTimeout = errors.New("genai: timeout waiting for rate limit")

// Allow blocks until a request is allowed, the wait timeout elapses, or the
// context is cancelled.
func (rl *RateLimiter) Allow(ctx context.Context) error {
	deadline := time.Now().Add(rl.waitTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		waitTime, ok := rl.tryAcquire()
		if ok {
			return nil
		}

		if time.Now().Add(waitTime).After(deadline) {
			return ErrRateLimitWaitTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// RecordRateLimitHit empties the bucket after the API returned HTTP 429 so
// subsequent calls wait out at least the server-provided delay.
func (rl *RateLimiter) RecordRateLimitHit(retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = 0
	rl.lastRequest = time.Now()
	if retryAfter > rl.minInterval {
		rl.minInterval = retryAfter
	}
}

// tryAcquire attempts to acquire a token without blocking. If it fails, the
// returned duration indicates how long to wait before retrying.
func (rl *RateLimiter) tryAcquire() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillTokens()

	timeSinceLastRequest := time.Since(rl.lastRequest)
	if timeSinceLastRequest < rl.minInterval {
		return rl.minInterval - timeSinceLastRequest, false
	}

	if rl.tokens < 1.0 {
		tokensNeeded := 1.0 - rl.tokens
		return time.Duration(tokensNeeded / rl.refillRate * float64(time.Second)), false
	}

	rl.tokens--
	rl.lastRequest = time.Now()
	return 0, true
}

// refillTokens adds tokens based on time elapsed since last refill.
// Must be called with lock held.
func (rl *RateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()

	if elapsed > 0 {
		rl.tokens += elapsed * rl.refillRate
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = now
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CIRCUIT BREAKER - Protection against a failing generation API
// ══════════════════════════════════════════════════════════════════════════════

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	// CircuitClosed - Normal operation, requests pass through.
	CircuitClosed CircuitState = iota

	// CircuitOpen - Circuit is open, requests fail fast.
	CircuitOpen

	// CircuitHalfOpen - Testing if service recovered.
	CircuitHalfOpen
)

// String returns the string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig contains configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before the circuit opens
	FailureThreshold int

	// SuccessThreshold is the number of successes needed to close the circuit
	SuccessThreshold int

	// Timeout is how long to wait before trying again
	Timeout time.Duration
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker implements the Circuit Breaker pattern.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	successThreshold int
	timeout          time.Duration

	state           CircuitState
	failures        int
	successes       int
	lastStateChange time.Time
}

// NewCircuitBreaker creates a new CircuitBreaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: config.FailureThreshold,
		successThreshold: config.SuccessThreshold,
		timeout:          config.Timeout,
		state:            CircuitClosed,
		lastStateChange:  time.Now(),
	}
}

// ErrCircuitOpen is returned when the circuit is open.
var ErrCircuitOpen = errors.New("genai: circuit breaker is open")

// Allow checks if a request should be allowed through.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		if time.Since(cb.lastStateChange) > cb.timeout {
			cb.transition(CircuitHalfOpen)
			return nil
		}
		return ErrCircuitOpen
	}
	return nil
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.transition(CircuitClosed)
		}
	case CircuitClosed:
		cb.failures = 0
	}
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.failureThreshold {
			cb.transition(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transition(CircuitOpen)
	}
}

// State returns the current state of the circuit.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transition must be called with lock held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	cb.state = to
	cb.lastStateChange = time.Now()
	if to != CircuitOpen {
		cb.failures = 0
	}
	cb.successes = 0
}
