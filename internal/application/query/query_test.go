package query

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type memProgressRepo struct {
	records map[shared.UserID]*progress.UserProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[shared.UserID]*progress.UserProgress)}
}

func (r *memProgressRepo) add(userID int64, xp int64, streak, completions int) {
	id := shared.UserID(userID)
	r.records[id] = &progress.UserProgress{
		UserID:           id,
		XP:               shared.XP(xp),
		Streak:           streak,
		TotalCompletions: completions,
	}
}

func (r *memProgressRepo) GetByUserID(ctx context.Context, userID shared.UserID) (*progress.UserProgress, error) {
	p, ok := r.records[userID]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return p.Clone(), nil
}

func (r *memProgressRepo) ApplyCompletion(ctx context.Context, p *progress.UserProgress, xpDelta int64, prev *time.Time) (*progress.UserProgress, error) {
	return nil, errors.New("not used in queries")
}

func (r *memProgressRepo) AddXP(ctx context.Context, userID shared.UserID, amount int64) (*progress.UserProgress, error) {
	return nil, errors.New("not used in queries")
}

func (r *memProgressRepo) Top(ctx context.Context, limit int) ([]*progress.UserProgress, error) {
	all := make([]*progress.UserProgress, 0, len(r.records))
	for _, p := range r.records {
		all = append(all, p.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].XP != all[j].XP {
			return all[i].XP > all[j].XP
		}
		return all[i].UserID < all[j].UserID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memProgressRepo) Count(ctx context.Context) (int, error) {
	return len(r.records), nil
}

type memLeaderboardCache struct {
	snapshots map[int][]progress.LeaderboardEntry
	gets      int
	sets      int
}

func newMemLeaderboardCache() *memLeaderboardCache {
	return &memLeaderboardCache{snapshots: make(map[int][]progress.LeaderboardEntry)}
}

func (c *memLeaderboardCache) Get(ctx context.Context, limit int) ([]progress.LeaderboardEntry, error) {
	c.gets++
	return c.snapshots[limit], nil
}

func (c *memLeaderboardCache) Set(ctx context.Context, limit int, entries []progress.LeaderboardEntry) error {
	c.sets++
	c.snapshots[limit] = entries
	return nil
}

func (c *memLeaderboardCache) Invalidate(ctx context.Context) error {
	c.snapshots = make(map[int][]progress.LeaderboardEntry)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetProfile
// ─────────────────────────────────────────────────────────────────────────────

func TestGetProfile(t *testing.T) {
	repo := newMemProgressRepo()
	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Hour)
	repo.records[42] = &progress.UserProgress{
		UserID:           42,
		XP:               30,
		Streak:           3,
		BestStreak:       5,
		TotalCompletions: 7,
		LastCompletion:   &last,
	}

	h := NewGetProfileHandler(repo, GetProfileHandlerConfig{})
	res, err := h.Handle(context.Background(), GetProfileQuery{UserID: 42, Now: now})
	require.NoError(t, err)

	assert.Equal(t, int64(30), res.XP)
	assert.Equal(t, 3, res.Streak)
	assert.Equal(t, 5, res.BestStreak)
	assert.Equal(t, 7, res.TotalCompletions)
	assert.True(t, res.CompletedToday)
}

func TestGetProfileUnknownUser(t *testing.T) {
	h := NewGetProfileHandler(newMemProgressRepo(), GetProfileHandlerConfig{})

	_, err := h.Handle(context.Background(), GetProfileQuery{UserID: 999})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// GetLeaderboard
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboardRanksByXPThenUserID(t *testing.T) {
	repo := newMemProgressRepo()
	repo.add(3, 50, 2, 5)
	repo.add(1, 100, 4, 10)
	repo.add(2, 50, 1, 5) // same XP as user 3, lower ID wins

	h := NewGetLeaderboardHandler(repo, nil, nil)
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, 3, res.TotalUsers)

	assert.Equal(t, shared.Rank(1), res.Entries[0].Rank)
	assert.Equal(t, shared.UserID(1), res.Entries[0].UserID)
	assert.Equal(t, shared.UserID(2), res.Entries[1].UserID)
	assert.Equal(t, shared.UserID(3), res.Entries[2].UserID)
}

func TestGetLeaderboardUsesCache(t *testing.T) {
	repo := newMemProgressRepo()
	repo.add(1, 100, 4, 10)
	cache := newMemLeaderboardCache()

	h := NewGetLeaderboardHandler(repo, cache, nil)

	// First call misses the cache and fills it.
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 5})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache.
	res, err = h.Handle(context.Background(), GetLeaderboardQuery{Limit: 5})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, cache.sets)
}

func TestGetLeaderboardBypassCache(t *testing.T) {
	repo := newMemProgressRepo()
	repo.add(1, 100, 4, 10)
	cache := newMemLeaderboardCache()
	cache.snapshots[5] = []progress.LeaderboardEntry{{Rank: 1, UserID: 99}}

	h := NewGetLeaderboardHandler(repo, cache, nil)
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 5, BypassCache: true})
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, shared.UserID(1), res.Entries[0].UserID)
}

func TestGetLeaderboardLimitNormalization(t *testing.T) {
	q := GetLeaderboardQuery{}
	require.NoError(t, q.Validate())
	assert.Equal(t, DefaultLeaderboardLimit, q.Limit)

	q = GetLeaderboardQuery{Limit: 500}
	require.NoError(t, q.Validate())
	assert.Equal(t, MaxLeaderboardLimit, q.Limit)

	q = GetLeaderboardQuery{Limit: -1}
	assert.Error(t, q.Validate())
}

func TestGetLeaderboardEmpty(t *testing.T) {
	h := NewGetLeaderboardHandler(newMemProgressRepo(), nil, nil)
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Equal(t, 0, res.TotalUsers)
}
