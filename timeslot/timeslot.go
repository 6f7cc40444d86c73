// Package timeslot holds the day-of-week and time-of-day value types shared
// by the availability resolver and the schedule conflict validator, so both
// use identical normalization and overlap semantics.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a lowercase English day name, monday..sunday.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays in schedule display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday normalizes a day name; empty result means the input was not
// a valid day.
func ParseWeekday(s string) (Weekday, bool) {
	day := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, w := range Weekdays {
		if day == w {
			return day, true
		}
	}
	return "", false
}

// WeekdayOf returns the weekday of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseDaySet parses a comma-separated day list ("monday,wednesday") into
// weekdays, dropping invalid entries and duplicates.
func ParseDaySet(s string) []Weekday {
	var out []Weekday
	seen := make(map[Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		if day, ok := ParseWeekday(part); ok && !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	return out
}

// JoinDaySet renders weekdays back to the stored comma-separated form.
func JoinDaySet(days []Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, string(d))
	}
	return strings.Join(parts, ",")
}

// TimeOfDay is a wall-clock minute within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (seconds discarded).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM or HH:MM:SS", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Normalize returns the canonical stored form HH:MM:SS.
func (t TimeOfDay) Normalize() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

// HHMM returns the display form HH:MM.
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the minute offset from midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// AddMinutes returns the time d minutes later, clamped within the day.
func (t TimeOfDay) AddMinutes(d int) TimeOfDay {
	total := t.Minutes() + d
	if total > 24*60 {
		total = 24 * 60
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// DisplayHHMM shortens a stored HH:MM:SS value to HH:MM for API responses.
func DisplayHHMM(stored string) string {
	if len(stored) >= 5 {
		return stored[:5]
	}
	return stored
}

// Range is a half-open [Start, End) interval within one day.
type Range struct {
	Start TimeOfDay
	End   TimeOfDay
}

// RangeFrom builds a range from a start time and a duration in minutes.
func RangeFrom(start TimeOfDay, durationMinutes int) Range {
	return Range{Start: start, End: start.AddMinutes(durationMinutes)}
}

// ParseRange parses stored "HH:MM:SS" start/end strings.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Overlaps reports whether two ranges collide. The boundary test is
// symmetric and half-open, so back-to-back ranges (end == next start) do
// not overlap.
func (r Range) Overlaps(other Range) bool {
	a, b := r.Start.Minutes(), r.End.Minutes()
	c, d := other.Start.Minutes(), other.End.Minutes()
	return (a <= c && b > c) || (c <= a && d > a)
}

// String renders the range as "HH:MM-HH:MM" for conflict messages.
func (r Range) String() string {
	return r.Start.HHMM() + "-" + r.End.HHMM()
}
