package eventhandler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

type fakeRoutingRepo struct {
	cfg *routing.ChannelConfig
	err error
}

func (r *fakeRoutingRepo) Load(ctx context.Context) (*routing.ChannelConfig, error) {
	return r.cfg, r.err
}

func (r *fakeRoutingRepo) Save(ctx context.Context, cfg *routing.ChannelConfig) error { return nil }

type fakeSender struct {
	chatID int64
	sent   []string
	err    error
}

func (s *fakeSender) SendHTML(ctx context.Context, chatID int64, html string) error {
	if s.err != nil {
		return s.err
	}
	s.chatID = chatID
	s.sent = append(s.sent, html)
	return nil
}

type fakeCache struct {
	invalidations int
	err           error
}

func (c *fakeCache) Get(ctx context.Context, limit int) ([]progress.LeaderboardEntry, error) {
	return nil, nil
}

func (c *fakeCache) Set(ctx context.Context, limit int, entries []progress.LeaderboardEntry) error {
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidations++
	return c.err
}

func TestSuggestionSubmittedAnnounced(t *testing.T) {
	cfg, err := routing.NewChannelConfig(-100100, -100200, -100300)
	require.NoError(t, err)
	sender := &fakeSender{}

	h := NewOnSuggestionSubmittedHandler(&fakeRoutingRepo{cfg: cfg}, sender, nil)
	event := shared.NewSuggestionSubmittedEvent(5, "Сними <таймлапс>", "Photography", 42)

	require.NoError(t, h.Handle(event))
	assert.Equal(t, int64(-100300), sender.chatID)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "/approve 5")
	assert.Contains(t, sender.sent[0], "&lt;таймлапс&gt;")
}

func TestSuggestionSubmittedIgnoresOtherEvents(t *testing.T) {
	sender := &fakeSender{}
	h := NewOnSuggestionSubmittedHandler(&fakeRoutingRepo{}, sender, nil)

	require.NoError(t, h.Handle(shared.NewXPGainedEvent(1, 10, 10, "manual")))
	assert.Empty(t, sender.sent)
}

func TestSuggestionSubmittedChannelMissing(t *testing.T) {
	h := NewOnSuggestionSubmittedHandler(&fakeRoutingRepo{err: shared.ErrChannelsNotConfigured}, &fakeSender{}, nil)

	err := h.Handle(shared.NewSuggestionSubmittedEvent(1, "t", "Art", 2))
	assert.ErrorIs(t, err, shared.ErrChannelsNotConfigured)
}

func TestCompletionRecordedInvalidatesCache(t *testing.T) {
	cache := &fakeCache{}
	h := NewOnCompletionRecordedHandler(cache, nil)

	require.NoError(t, h.Handle(shared.NewCompletionRecordedEvent(1, 3, 7, 10)))
	require.NoError(t, h.Handle(shared.NewXPGainedEvent(1, 10, 30, "manual")))
	assert.Equal(t, 2, cache.invalidations)

	// Unrelated events leave the cache alone.
	require.NoError(t, h.Handle(shared.NewSuggestionApprovedEvent(1, 2)))
	assert.Equal(t, 2, cache.invalidations)
}

func TestCompletionRecordedCacheFailureIsSwallowed(t *testing.T) {
	cache := &fakeCache{err: errors.New("redis down")}
	h := NewOnCompletionRecordedHandler(cache, nil)

	assert.NoError(t, h.Handle(shared.NewCompletionRecordedEvent(1, 1, 1, 10)))
}
