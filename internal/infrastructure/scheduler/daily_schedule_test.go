package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyScheduleNext(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	sched := NewDailySchedule(12, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before anchor fires today",
			now:  time.Date(2025, 3, 10, 9, 30, 0, 0, loc),
			want: time.Date(2025, 3, 10, 12, 0, 0, 0, loc),
		},
		{
			name: "after anchor fires tomorrow",
			now:  time.Date(2025, 3, 10, 15, 0, 0, 0, loc),
			want: time.Date(2025, 3, 11, 12, 0, 0, 0, loc),
		},
		{
			name: "exactly at anchor fires tomorrow",
			now:  time.Date(2025, 3, 10, 12, 0, 0, 0, loc),
			want: time.Date(2025, 3, 11, 12, 0, 0, 0, loc),
		},
		{
			name: "utc input converted to anchor zone",
			now:  time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), // 13:00 local
			want: time.Date(2025, 3, 11, 12, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sched.Next(tt.now)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDailyScheduleNilLocationDefaultsToUTC(t *testing.T) {
	sched := NewDailySchedule(0, 0, nil)
	require.Equal(t, time.UTC, sched.Location)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	got := sched.Next(now)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestDailyScheduleString(t *testing.T) {
	sched := NewDailySchedule(9, 5, time.UTC)
	assert.Equal(t, "@daily 09:05 (UTC)", sched.String())
}

func TestIntervalScheduleNext(t *testing.T) {
	sched := NewIntervalSchedule(30 * time.Minute)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(30*time.Minute), sched.Next(now))
	assert.Equal(t, "@every 30m0s", sched.String())
}
