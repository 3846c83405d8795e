package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronRejectsBadExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"too few fields", "0 9 * *"},
		{"too many fields", "0 9 * * * *"},
		{"minute out of range", "60 * * * *"},
		{"hour out of range", "0 24 * * *"},
		{"weekday out of range", "0 9 * * 7"},
		{"garbage value", "x 9 * * *"},
		{"zero step", "*/0 * * * *"},
		{"inverted range", "30-10 * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCron(tt.expr, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestCronScheduleNext(t *testing.T) {
	tests := []struct {
		name string
		expr string
		now  time.Time
		want time.Time
	}{
		{
			name: "daily anchor before fire time",
			expr: "0 9 * * *",
			now:  time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "daily anchor after fire time rolls to tomorrow",
			expr: "0 9 * * *",
			now:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "every 15 minutes",
			expr: "*/15 * * * *",
			now:  time.Date(2025, 3, 10, 9, 16, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "weekday constraint skips to friday",
			expr: "30 21 * * 5",
			now:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), // Monday
			want: time.Date(2025, 3, 14, 21, 30, 0, 0, time.UTC),
		},
		{
			name: "month constraint rolls to next year",
			expr: "0 0 1 1 *",
			now:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "value list",
			expr: "0 9,18 * * *",
			now:  time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := ParseCron(tt.expr, time.UTC)
			require.NoError(t, err)

			got := sched.Next(tt.now)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestCronScheduleHonorsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	sched, err := ParseCron("0 9 * * *", loc)
	require.NoError(t, err)

	// 02:00 UTC is 07:00 local, so the next fire is 09:00 local (04:00 UTC).
	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	got := sched.Next(now)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, loc)), "got %v", got)
}

func TestCronScheduleString(t *testing.T) {
	sched, err := ParseCron("0 9 * * *", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "@cron 0 9 * * * (UTC)", sched.String())
}
