package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 6, d, hour, 0, 0, 0, time.UTC)
}

func TestNewUserProgress(t *testing.T) {
	p, err := NewUserProgress(42)
	require.NoError(t, err)

	assert.Equal(t, shared.UserID(42), p.UserID)
	assert.Equal(t, shared.XP(0), p.XP)
	assert.Equal(t, 0, p.Streak)
	assert.Nil(t, p.LastCompletion)
	assert.Equal(t, 0, p.TotalCompletions)
}

func TestNewUserProgress_InvalidID(t *testing.T) {
	_, err := NewUserProgress(0)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewUserProgress(-5)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestAddXP(t *testing.T) {
	p, _ := NewUserProgress(1)

	require.NoError(t, p.AddXP(50))
	assert.Equal(t, shared.XP(50), p.XP)

	require.NoError(t, p.AddXP(0))
	assert.Equal(t, shared.XP(50), p.XP)

	assert.ErrorIs(t, p.AddXP(-1), shared.ErrNegativeValue)
	assert.Equal(t, shared.XP(50), p.XP)
}

func TestAddXP_OrderIndependent(t *testing.T) {
	amounts := []int64{7, 13, 0, 100}

	p1, _ := NewUserProgress(1)
	for _, a := range amounts {
		require.NoError(t, p1.AddXP(a))
	}

	p2, _ := NewUserProgress(1)
	for i := len(amounts) - 1; i >= 0; i-- {
		require.NoError(t, p2.AddXP(amounts[i]))
	}

	assert.Equal(t, p1.XP, p2.XP)
}

func TestRecordCompletion_First(t *testing.T) {
	p, _ := NewUserProgress(1)

	res, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.False(t, res.StreakBroken)
	assert.Equal(t, CompletionBonusXP, res.XPAwarded)
	assert.Equal(t, shared.XP(10), p.XP)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 1, p.BestStreak)
	assert.Equal(t, 1, p.TotalCompletions)
	require.NotNil(t, p.LastCompletion)
}

func TestRecordCompletion_SameDayIsNoOp(t *testing.T) {
	p, _ := NewUserProgress(1)

	_, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)

	_, err = p.RecordCompletion(day(1, 23), time.UTC)
	assert.ErrorIs(t, err, shared.ErrAlreadyCompleted)

	assert.Equal(t, shared.XP(10), p.XP)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 1, p.TotalCompletions)
}

func TestRecordCompletion_ConsecutiveDaysIncrement(t *testing.T) {
	p, _ := NewUserProgress(1)

	_, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)

	res, err := p.RecordCompletion(day(2, 9), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, shared.XP(20), p.XP)
	assert.Equal(t, 2, p.TotalCompletions)
}

func TestRecordCompletion_GapResetsStreak(t *testing.T) {
	p, _ := NewUserProgress(1)

	_, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)
	_, err = p.RecordCompletion(day(2, 10), time.UTC)
	require.NoError(t, err)

	// День 3 пропущен.
	res, err := p.RecordCompletion(day(4, 10), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.True(t, res.StreakBroken)
	assert.Equal(t, 2, res.PreviousStreak)
	assert.Equal(t, 1, res.DaysMissed)
	assert.Equal(t, shared.XP(30), p.XP)
	assert.Equal(t, 3, p.TotalCompletions)
	assert.Equal(t, 2, p.BestStreak)
}

func TestRecordCompletion_SpecScenario(t *testing.T) {
	p, _ := NewUserProgress(7)

	// День 1.
	_, err := p.RecordCompletion(day(1, 12), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shared.XP(10), p.XP)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 1, p.TotalCompletions)

	// Повтор в тот же день - без изменений.
	_, err = p.RecordCompletion(day(1, 18), time.UTC)
	assert.ErrorIs(t, err, shared.ErrAlreadyCompleted)
	assert.Equal(t, shared.XP(10), p.XP)

	// День 2.
	_, err = p.RecordCompletion(day(2, 12), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shared.XP(20), p.XP)
	assert.Equal(t, 2, p.Streak)
	assert.Equal(t, 2, p.TotalCompletions)

	// День 3 пропущен, день 4 - сброс серии.
	_, err = p.RecordCompletion(day(4, 12), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shared.XP(30), p.XP)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 3, p.TotalCompletions)
}

func TestRecordCompletion_BestStreakNeverDecreases(t *testing.T) {
	p, _ := NewUserProgress(1)

	for d := 1; d <= 5; d++ {
		_, err := p.RecordCompletion(day(d, 10), time.UTC)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, p.BestStreak)

	_, err := p.RecordCompletion(day(10, 10), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 5, p.BestStreak)
}

func TestRecordCompletion_TimezoneBoundary(t *testing.T) {
	utc5 := time.FixedZone("UTC+5", 5*60*60)
	p, _ := NewUserProgress(1)

	// 22:00 UTC 1-го числа - это уже 2-е число в UTC+5.
	_, err := p.RecordCompletion(day(1, 22), utc5)
	require.NoError(t, err)

	// 01:00 UTC 2-го числа - тот же календарный день в UTC+5.
	_, err = p.RecordCompletion(day(2, 1), utc5)
	assert.ErrorIs(t, err, shared.ErrAlreadyCompleted)
}

func TestCompletedToday(t *testing.T) {
	p, _ := NewUserProgress(1)
	assert.False(t, p.CompletedToday(day(1, 10), time.UTC))

	_, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)

	assert.True(t, p.CompletedToday(day(1, 20), time.UTC))
	assert.False(t, p.CompletedToday(day(2, 10), time.UTC))
}

func TestClone(t *testing.T) {
	p, _ := NewUserProgress(1)
	_, err := p.RecordCompletion(day(1, 10), time.UTC)
	require.NoError(t, err)

	clone := p.Clone()
	clone.XP = 999
	*clone.LastCompletion = day(5, 0)

	assert.Equal(t, shared.XP(10), p.XP)
	assert.Equal(t, day(1, 10), *p.LastCompletion)
}
