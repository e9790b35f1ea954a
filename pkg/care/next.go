package care

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateOnly keeps the calendar date of t (in t's own location) at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of now as seen in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// ParseDate reads a YYYY-MM-DD calendar date, ignoring surrounding blanks, and
// returns it at midnight UTC like every other date in this package.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// Next advances from by one recurrence step. Months clamp to the last day of
// the target month, so Jan 31 + 1 month is Feb 28 (29 in leap years).
// The bool is false for Never and for invalid recurrences.
func (r Recurrence) Next(from time.Time) (time.Time, bool) {
	if r.Kind != KindInterval || !r.Valid() {
		return time.Time{}, false
	}
	d := DateOnly(from)
	switch r.Unit {
	case UnitDay:
		return d.AddDate(0, 0, r.Interval), true
	case UnitWeek:
		return d.AddDate(0, 0, 7*r.Interval), true
	case UnitMonth:
		return addMonthsClamped(d, r.Interval), true
	}
	return time.Time{}, false
}

func addMonthsClamped(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// NextDue parses schedule and returns the due date after from, or nil when
// the schedule is blank or Never.
func NextDue(schedule string, from time.Time) (*time.Time, error) {
	if isBlank(schedule) {
		return nil, nil
	}
	r, err := ParseSchedule(schedule)
	if err != nil {
		return nil, err
	}
	next, ok := r.Next(from)
	if !ok {
		return nil, nil
	}
	return &next, nil
}
