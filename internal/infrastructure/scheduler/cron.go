package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CronSchedule fires according to a standard 5-field cron expression:
// minute hour day-of-month month day-of-week.
// Examples:
//   - "0 9 * * *"    - every day at 09:00
//   - "30 21 * * 5"  - every Friday at 21:30
//   - "*/15 * * * *" - every 15 minutes
type CronSchedule struct {
	raw      string
	minutes  map[int]bool // 0-59
	hours    map[int]bool // 0-23
	days     map[int]bool // 1-31
	months   map[int]bool // 1-12
	weekdays map[int]bool // 0-6 (0 = Sunday)
	location *time.Location
}

// ParseCron parses a 5-field cron expression. A nil location means UTC.
func ParseCron(expr string, loc *time.Location) (*CronSchedule, error) {
	if loc == nil {
		loc = time.UTC
	}

	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron: expected 5 fields, got %d in %q", len(fields), expr)
	}

	s := &CronSchedule{raw: expr, location: loc}

	var err error
	if s.minutes, err = parseCronField(fields[0], 0, 59); err != nil {
		return nil, fmt.Errorf("cron: minute field: %w", err)
	}
	if s.hours, err = parseCronField(fields[1], 0, 23); err != nil {
		return nil, fmt.Errorf("cron: hour field: %w", err)
	}
	if s.days, err = parseCronField(fields[2], 1, 31); err != nil {
		return nil, fmt.Errorf("cron: day-of-month field: %w", err)
	}
	if s.months, err = parseCronField(fields[3], 1, 12); err != nil {
		return nil, fmt.Errorf("cron: month field: %w", err)
	}
	if s.weekdays, err = parseCronField(fields[4], 0, 6); err != nil {
		return nil, fmt.Errorf("cron: day-of-week field: %w", err)
	}

	return s, nil
}

// parseCronField parses one field: "*", "*/step", "a-b", "a-b/step",
// a single value or a comma-separated list of those.
func parseCronField(field string, min, max int) (map[int]bool, error) {
	values := make(map[int]bool)

	for _, part := range strings.Split(field, ",") {
		rangePart := part
		step := 1

		if idx := strings.Index(part, "/"); idx >= 0 {
			rangePart = part[:idx]
			parsed, err := strconv.Atoi(part[idx+1:])
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("invalid step in %q", part)
			}
			step = parsed
		}

		lo, hi := min, max
		switch {
		case rangePart == "*":
			// full range
		case strings.Contains(rangePart, "-"):
			bounds := strings.SplitN(rangePart, "-", 2)
			var err error
			if lo, err = strconv.Atoi(bounds[0]); err != nil {
				return nil, fmt.Errorf("invalid range start in %q", part)
			}
			if hi, err = strconv.Atoi(bounds[1]); err != nil {
				return nil, fmt.Errorf("invalid range end in %q", part)
			}
		default:
			n, err := strconv.Atoi(rangePart)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q", part)
			}
			lo, hi = n, n
		}

		if lo < min || hi > max || lo > hi {
			return nil, fmt.Errorf("value out of range [%d, %d] in %q", min, max, part)
		}

		for v := lo; v <= hi; v += step {
			values[v] = true
		}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("empty field %q", field)
	}

	return values, nil
}

// Next returns the first matching time strictly after t.
func (s *CronSchedule) Next(t time.Time) time.Time {
	// Minute resolution, so start from the next whole minute.
	next := t.In(s.location).Truncate(time.Minute).Add(time.Minute)

	// Four years covers every leap-day expression.
	limit := next.AddDate(4, 0, 0)
	for next.Before(limit) {
		if !s.months[int(next.Month())] {
			next = time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, s.location).AddDate(0, 1, 0)
			continue
		}
		if !s.days[next.Day()] || !s.weekdays[int(next.Weekday())] {
			next = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, 1)
			continue
		}
		if !s.hours[next.Hour()] {
			next = time.Date(next.Year(), next.Month(), next.Day(), next.Hour(), 0, 0, 0, s.location).Add(time.Hour)
			continue
		}
		if !s.minutes[next.Minute()] {
			next = next.Add(time.Minute)
			continue
		}
		return next
	}

	return limit
}

// String returns the raw cron expression.
func (s *CronSchedule) String() string {
	return fmt.Sprintf("@cron %s (%s)", s.raw, s.location)
}
