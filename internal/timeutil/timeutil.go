// Package timeutil holds calendar-day helpers shared by the streak
// calculator and the activity aggregator. All helpers keep the location of
// their argument; callers normalise to the user's zone beforehand.
package timeutil

import "time"

// DayLayout is the key format used for day buckets.
const DayLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayKey formats t's calendar day, e.g. "2024-01-31".
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a DayKey in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, loc)
}

// DaysBetween counts calendar days from a to b; negative when b is earlier.
// It compares dates, not durations, so DST shifts never produce 0 or 2.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// WeekdayLabel returns the short English weekday, e.g. "Mon".
func WeekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}
