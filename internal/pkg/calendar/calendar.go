// Package calendar holds civil-date helpers. A civil date is a time.Time at
// midnight UTC; wall-clock instants are converted with Civil using the
// business timezone.
package calendar

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

const DateLayout = "2006-01-02"

// Date returns the civil date y-m-d.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Civil returns the calendar date of instant t as observed in loc.
func Civil(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// Truncate drops any time-of-day component, keeping the date as written.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func Key(t time.Time) string {
	return t.Format(DateLayout)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MonthBounds returns the first and last civil dates of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	n := now.With(Date(year, month, 1))
	return Truncate(n.BeginningOfMonth()), Truncate(n.EndOfMonth())
}

func DaysInMonth(year int, month time.Month) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}

// Weekday uses Go's numbering: 0 is Sunday through 6 Saturday.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// Days lists every civil date in [from, to]. It is empty when to is before from.
func Days(from, to time.Time) []time.Time {
	from, to = Truncate(from), Truncate(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseClock combines a civil date with an HH:MM wall-clock time in loc.
func ParseClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc), nil
}
