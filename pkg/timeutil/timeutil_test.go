package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		t1   time.Time
		t2   time.Time
		want int
	}{
		{
			name: "same day different hours",
			t1:   time.Date(2025, 3, 10, 1, 0, 0, 0, loc),
			t2:   time.Date(2025, 3, 10, 23, 59, 0, 0, loc),
			want: 0,
		},
		{
			name: "next day",
			t1:   time.Date(2025, 3, 10, 23, 0, 0, 0, loc),
			t2:   time.Date(2025, 3, 11, 0, 30, 0, 0, loc),
			want: 1,
		},
		{
			name: "two day gap",
			t1:   time.Date(2025, 3, 10, 12, 0, 0, 0, loc),
			t2:   time.Date(2025, 3, 12, 12, 0, 0, 0, loc),
			want: 2,
		},
		{
			name: "negative when t2 earlier",
			t1:   time.Date(2025, 3, 12, 0, 0, 0, 0, loc),
			t2:   time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
			want: -2,
		},
		{
			name: "across month boundary",
			t1:   time.Date(2025, 1, 31, 18, 0, 0, 0, loc),
			t2:   time.Date(2025, 2, 1, 6, 0, 0, 0, loc),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.t1, tt.t2, loc))
		})
	}
}

func TestDaysBetween_TimezoneMatters(t *testing.T) {
	utc5 := time.FixedZone("UTC+5", 5*60*60)

	// 22:00 UTC and 01:00 UTC next day are the same calendar day in UTC+5.
	t1 := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(t1, t2, time.UTC))
	assert.Equal(t, 0, DaysBetween(t1, t2, utc5))
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	assert.True(t, SameDay(base, base.Add(10*time.Hour), loc))
	assert.False(t, SameDay(base, base.AddDate(0, 0, 1), loc))
}

func TestIsConsecutiveDay(t *testing.T) {
	loc := time.UTC
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	assert.True(t, IsConsecutiveDay(base, base.AddDate(0, 0, 1), loc))
	assert.False(t, IsConsecutiveDay(base, base, loc))
	assert.False(t, IsConsecutiveDay(base, base.AddDate(0, 0, 2), loc))
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	got, err := ParseDate("2025-06-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, loc), got)

	_, err = ParseDate("not-a-date", loc)
	assert.Error(t, err)
}

func TestAtTimeOfDay(t *testing.T) {
	loc := time.UTC
	day := time.Date(2025, 6, 1, 17, 45, 12, 0, loc)

	got := AtTimeOfDay(day, 12, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, loc), got)
}
