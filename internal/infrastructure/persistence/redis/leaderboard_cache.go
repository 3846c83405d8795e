package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements progress.LeaderboardCache over Redis.
// Each requested limit gets its own snapshot key so a /leaderboard hit
// and an HTTP API hit with different limits never serve each other
// truncated data.
type LeaderboardCache struct {
	cache *Cache
}

var _ progress.LeaderboardCache = (*LeaderboardCache)(nil)

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// Get returns the cached leaderboard for a limit, or nil on a miss.
func (c *LeaderboardCache) Get(ctx context.Context, limit int) ([]progress.LeaderboardEntry, error) {
	var entries []progress.LeaderboardEntry
	err := c.cache.Get(ctx, c.key(limit), &entries)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

// Set stores a leaderboard snapshot with the standard TTL.
func (c *LeaderboardCache) Set(ctx context.Context, limit int, entries []progress.LeaderboardEntry) error {
	return c.cache.Set(ctx, c.key(limit), entries, TTLLeaderboardCache)
}

// Invalidate drops every cached snapshot. Called when a completion
// changes the standings.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}

func (c *LeaderboardCache) key(limit int) string {
	return fmt.Sprintf("%stop:%d", PrefixLeaderboard, limit)
}
