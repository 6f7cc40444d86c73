package timeslot

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expHour   int
		expMinute int
	}{
		{
			name:      "short form",
			input:     "09:30",
			expHour:   9,
			expMinute: 30,
		},
		{
			name:      "with seconds",
			input:     "14:05:00",
			expHour:   14,
			expMinute: 5,
		},
		{
			name:      "padded whitespace",
			input:     " 08:00 ",
			expHour:   8,
			expMinute: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tod, err := ParseTimeOfDay(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tod.Hour != tc.expHour || tod.Minute != tc.expMinute {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", tc.expHour, tc.expMinute, tod.Hour, tod.Minute)
			}
		})
	}
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, input := range []string{"", "nine", "25:00", "10:61", "10"} {
		if _, err := ParseTimeOfDay(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tod.Normalize(); got != "09:30:00" {
		t.Fatalf("Normalize: want 09:30:00, got %s", got)
	}
	if got := tod.HHMM(); got != "09:30" {
		t.Fatalf("HHMM: want 09:30, got %s", got)
	}
	if got := DisplayHHMM("09:30:00"); got != "09:30" {
		t.Fatalf("DisplayHHMM: want 09:30, got %s", got)
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(start string, duration int) Range {
		tod, err := ParseTimeOfDay(start)
		if err != nil {
			t.Fatalf("parse %q: %v", start, err)
		}
		return RangeFrom(tod, duration)
	}

	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{name: "identical", a: mk("09:00", 60), b: mk("09:00", 60), want: true},
		{name: "contained", a: mk("09:00", 60), b: mk("09:30", 15), want: true},
		{name: "partial front", a: mk("09:00", 60), b: mk("09:30", 60), want: true},
		{name: "partial back", a: mk("09:30", 60), b: mk("09:00", 60), want: true},
		{name: "back to back", a: mk("09:00", 60), b: mk("10:00", 60), want: false},
		{name: "back to back reversed", a: mk("10:00", 60), b: mk("09:00", 60), want: false},
		{name: "disjoint", a: mk("09:00", 60), b: mk("11:00", 60), want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%s, %s): want %v, got %v", tc.a, tc.b, tc.want, got)
			}
			// overlap must be symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps(%s, %s) mirror: want %v, got %v", tc.b, tc.a, tc.want, got)
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 is a Monday
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := WeekdayOf(date); got != Monday {
		t.Fatalf("want monday, got %s", got)
	}
	if got := WeekdayOf(date.AddDate(0, 0, 6)); got != Sunday {
		t.Fatalf("want sunday, got %s", got)
	}
}

func TestParseDaySet(t *testing.T) {
	days := ParseDaySet("Monday, wednesday,monday,notaday")
	if len(days) != 2 || days[0] != Monday || days[1] != Wednesday {
		t.Fatalf("unexpected day set: %v", days)
	}
	if got := JoinDaySet(days); got != "monday,wednesday" {
		t.Fatalf("JoinDaySet: got %s", got)
	}
}
