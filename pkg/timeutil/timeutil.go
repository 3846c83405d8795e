// Package timeutil provides calendar-day helpers for streak tracking and
// daily scheduling. All calculations are done in an explicit *time.Location
// so the bot's notion of "today" follows the configured community timezone,
// not the host clock.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// FormatDate is the standard date format (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay checks if two times fall on the same calendar day in the given location.
func SameDay(t1, t2 time.Time, loc *time.Location) bool {
	l1, l2 := t1.In(loc), t2.In(loc)
	return l1.Year() == l2.Year() && l1.YearDay() == l2.YearDay()
}

// DaysBetween returns the number of calendar days from t1 to t2 in the given
// location. Positive when t2 is later, negative when earlier. Uses AddDate
// rather than duration math so DST transitions do not skew the count.
func DaysBetween(t1, t2 time.Time, loc *time.Location) int {
	d1 := StartOfDay(t1, loc)
	d2 := StartOfDay(t2, loc)

	days := 0
	for d1.Before(d2) {
		d1 = d1.AddDate(0, 0, 1)
		days++
	}
	for d1.After(d2) {
		d1 = d1.AddDate(0, 0, -1)
		days--
	}
	return days
}

// IsConsecutiveDay checks if t2 is the calendar day after t1.
func IsConsecutiveDay(t1, t2 time.Time, loc *time.Location) bool {
	return DaysBetween(t1, t2, loc) == 1
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in the given location.
func FormatDateStr(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatDate)
}

// ParseDate parses a date string (YYYY-MM-DD) in the given location.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, loc)
}

// AtTimeOfDay returns the given day's date combined with the given wall-clock
// hour and minute in the location. Used to compute daily anchor times.
func AtTimeOfDay(day time.Time, hour, minute int, loc *time.Location) time.Time {
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
}
