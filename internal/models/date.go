package models

import "time"

// DateLayout is the calendar-date format used across raw reports, the record
// store, and output paths.
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its UTC calendar date. All DailyRecord dates
// are stored at day granularity so range comparisons are exact.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// ParseDate parses a calendar date in DateLayout, normalized to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DatesBetween returns every calendar date from start through end inclusive,
// ascending. Returns nil when start is after end.
func DatesBetween(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
