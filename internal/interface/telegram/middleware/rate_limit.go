package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER MIDDLEWARE
// Per-user token bucket over incoming commands. Protects the application
// layer from spam; the outgoing Telegram client has its own send limiter.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimitConfig holds configuration for the rate limiter.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained per-user command rate.
	RequestsPerMinute int

	// BurstSize is the number of commands a user may send at once.
	BurstSize int

	// CleanupInterval is how often idle user buckets are dropped.
	CleanupInterval time.Duration

	// IdleTTL is how long a bucket survives without activity.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 20,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
		IdleTTL:           15 * time.Minute,
	}
}

// RateLimiter limits the rate of commands per user.
type RateLimiter struct {
	config RateLimitConfig

	mu      sync.Mutex
	buckets map[int64]*userBucket

	stopCh    chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
}

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new per-user rate limiter.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultRateLimitConfig()
	}

	return &RateLimiter{
		config:  config,
		buckets: make(map[int64]*userBucket),
		stopCh:  make(chan struct{}),
	}
}

// Allow reports whether the user may run one more command now.
func (l *RateLimiter) Allow(userID int64) bool {
	l.startOnce.Do(func() { go l.cleanupLoop() })

	l.mu.Lock()
	b, ok := l.buckets[userID]
	if !ok {
		b = &userBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(l.config.RequestsPerMinute)/60.0), l.config.BurstSize),
		}
		l.buckets[userID] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()

	return b.limiter.Allow()
}

// Stop terminates the cleanup loop.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	for id, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, id)
		}
	}
	l.mu.Unlock()
}
