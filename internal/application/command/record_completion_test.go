package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func newCompletionHandler(repo *memProgressRepo, pub *capturingPublisher) *RecordCompletionHandler {
	return NewRecordCompletionHandler(repo, pub, RecordCompletionHandlerConfig{Location: time.UTC})
}

func completeAt(t *testing.T, h *RecordCompletionHandler, userID int64, at time.Time) *RecordCompletionResult {
	t.Helper()
	result, err := h.Handle(context.Background(), RecordCompletionCommand{UserID: userID, Timestamp: at})
	require.NoError(t, err)
	return result
}

func TestCompletionLifecycle(t *testing.T) {
	repo := newMemProgressRepo()
	pub := &capturingPublisher{}
	h := newCompletionHandler(repo, pub)

	day1 := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	// First ever completion.
	res := completeAt(t, h, 42, day1)
	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, int64(10), res.XPAwarded)
	assert.Equal(t, int64(10), res.TotalXP)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, res.TotalCompletions)

	// Second completion the same calendar day changes nothing.
	res = completeAt(t, h, 42, day1.Add(2*time.Hour))
	assert.True(t, res.AlreadyCompleted)
	assert.Equal(t, int64(0), res.XPAwarded)
	assert.Equal(t, int64(10), res.TotalXP)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, res.TotalCompletions)

	// Next day extends the streak.
	res = completeAt(t, h, 42, day1.AddDate(0, 0, 1))
	assert.Equal(t, int64(20), res.TotalXP)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, 2, res.TotalCompletions)
	assert.False(t, res.StreakBroken)

	// Skipping a day resets the streak to 1, XP keeps accumulating.
	res = completeAt(t, h, 42, day1.AddDate(0, 0, 3))
	assert.Equal(t, int64(30), res.TotalXP)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 3, res.TotalCompletions)
	assert.True(t, res.StreakBroken)
	assert.Equal(t, 2, res.PreviousStreak)
	assert.Equal(t, 2, res.BestStreak)
}

func TestCompletionPublishesEvents(t *testing.T) {
	repo := newMemProgressRepo()
	pub := &capturingPublisher{}
	h := newCompletionHandler(repo, pub)

	day1 := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	completeAt(t, h, 7, day1)

	require.Len(t, pub.byType(shared.EventCompletionRecorded), 1)
	require.Len(t, pub.byType(shared.EventXPGained), 1)
	assert.Empty(t, pub.byType(shared.EventStreakBroken))

	gained := pub.byType(shared.EventXPGained)[0].(shared.XPGainedEvent)
	assert.Equal(t, int64(10), gained.Amount)
	assert.Equal(t, "completion_bonus", gained.Source)

	// A gap emits a streak broken event.
	completeAt(t, h, 7, day1.AddDate(0, 0, 1))
	completeAt(t, h, 7, day1.AddDate(0, 0, 5))

	broken := pub.byType(shared.EventStreakBroken)
	require.Len(t, broken, 1)
	event := broken[0].(shared.StreakBrokenEvent)
	assert.Equal(t, 2, event.PreviousStreak)
	assert.Equal(t, 3, event.DaysMissed)
}

func TestCompletionSameDayEmitsNoEvents(t *testing.T) {
	repo := newMemProgressRepo()
	pub := &capturingPublisher{}
	h := newCompletionHandler(repo, pub)

	day := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	completeAt(t, h, 7, day)
	before := len(pub.events)

	res := completeAt(t, h, 7, day.Add(time.Hour))
	assert.True(t, res.AlreadyCompleted)
	assert.Len(t, pub.events, before)
}

func TestCompletionDayBoundaryFollowsLocation(t *testing.T) {
	repo := newMemProgressRepo()
	loc := time.FixedZone("UTC+5", 5*3600)
	h := NewRecordCompletionHandler(repo, nil, RecordCompletionHandlerConfig{Location: loc})

	// 22:00 UTC is already 03:00 the next day in UTC+5.
	first := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC)

	completeAt(t, h, 9, first)
	res := completeAt(t, h, 9, second)
	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, 2, res.Streak)
}

// racingProgressRepo runs a hook after the handler's initial load, so tests
// can interleave a competing write between the load and the completion write.
type racingProgressRepo struct {
	*memProgressRepo
	onLoad func()
}

func (r *racingProgressRepo) GetByUserID(ctx context.Context, userID shared.UserID) (*progress.UserProgress, error) {
	p, err := r.memProgressRepo.GetByUserID(ctx, userID)
	if r.onLoad != nil {
		hook := r.onLoad
		r.onLoad = nil
		hook()
	}
	return p, err
}

func TestCompletionKeepsConcurrentXPGrant(t *testing.T) {
	repo := newMemProgressRepo()
	racing := &racingProgressRepo{memProgressRepo: repo}
	h := NewRecordCompletionHandler(racing, nil, RecordCompletionHandlerConfig{Location: time.UTC})

	// An XP grant lands after the completion handler has loaded the record.
	racing.onLoad = func() {
		_, err := repo.AddXP(context.Background(), shared.UserID(42), 25)
		require.NoError(t, err)
	}

	res := completeAt(t, h, 42, time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC))
	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, int64(10), res.XPAwarded)
	assert.Equal(t, int64(35), res.TotalXP)

	stored, err := repo.GetByUserID(context.Background(), shared.UserID(42))
	require.NoError(t, err)
	assert.Equal(t, int64(35), stored.XP.Int64())
}

func TestCompletionConcurrentCompletionCreditedOnce(t *testing.T) {
	repo := newMemProgressRepo()
	racing := &racingProgressRepo{memProgressRepo: repo}
	cfg := RecordCompletionHandlerConfig{Location: time.UTC}
	h := NewRecordCompletionHandler(racing, nil, cfg)

	day := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	// A competing completion for the same user wins the race.
	racing.onLoad = func() {
		inner := NewRecordCompletionHandler(repo, nil, cfg)
		_, err := inner.Handle(context.Background(), RecordCompletionCommand{UserID: 42, Timestamp: day})
		require.NoError(t, err)
	}

	res := completeAt(t, h, 42, day)
	assert.True(t, res.AlreadyCompleted)
	assert.Equal(t, int64(10), res.TotalXP)
	assert.Equal(t, 1, res.TotalCompletions)
}

func TestCompletionValidation(t *testing.T) {
	h := newCompletionHandler(newMemProgressRepo(), nil)

	_, err := h.Handle(context.Background(), RecordCompletionCommand{UserID: 0})
	assert.Error(t, err)
}
