package scheduler

import (
	"fmt"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/pkg/timeutil"
)

// DailySchedule fires once a day at a fixed anchor time in a fixed
// time zone. Used for the daily challenge post.
type DailySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// NewDailySchedule creates a DailySchedule. A nil location means UTC.
func NewDailySchedule(hour, minute int, loc *time.Location) *DailySchedule {
	if loc == nil {
		loc = time.UTC
	}
	return &DailySchedule{Hour: hour, Minute: minute, Location: loc}
}

// Next returns today's anchor when t is before it, otherwise tomorrow's.
func (s *DailySchedule) Next(t time.Time) time.Time {
	local := t.In(s.Location)

	anchor := timeutil.AtTimeOfDay(local, s.Hour, s.Minute, s.Location)
	if anchor.After(t) {
		return anchor
	}
	return timeutil.AtTimeOfDay(local.AddDate(0, 0, 1), s.Hour, s.Minute, s.Location)
}

// String returns the string representation of the schedule.
func (s *DailySchedule) String() string {
	return fmt.Sprintf("@daily %02d:%02d (%s)", s.Hour, s.Minute, s.Location)
}
