package domain

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "09:00", want: "09:00", ok: true},
		{in: "23:59", want: "23:59", ok: true},
		{in: "9:5", want: "09:05", ok: true},
		{in: " 14:30 ", want: "14:30", ok: true},
		{in: "24:00", ok: false},
		{in: "12:60", ok: false},
		{in: "noon", ok: false},
		{in: "12", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.ok != (err == nil) {
			t.Fatalf("ParseClock(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("ParseClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFireDate_FullDate(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	got, err := ParseFireDate("25.12.2024", "09:00", now)
	if err != nil {
		t.Fatalf("ParseFireDate error: %v", err)
	}
	if got != "25.12.2024" {
		t.Fatalf("got %q, want 25.12.2024", got)
	}
}

func TestParseFireDate_ShortDateThisYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	got, err := ParseFireDate("25.12", "09:00", now)
	if err != nil {
		t.Fatalf("ParseFireDate error: %v", err)
	}
	if got != "25.12.2024" {
		t.Fatalf("got %q, want 25.12.2024", got)
	}
}

func TestParseFireDate_ShortDateRollsToNextYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	got, err := ParseFireDate("01.03", "09:00", now)
	if err != nil {
		t.Fatalf("ParseFireDate error: %v", err)
	}
	if got != "01.03.2025" {
		t.Fatalf("got %q, want 01.03.2025", got)
	}
}

func TestParseFireDate_SameDayLaterClockStays(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	got, err := ParseFireDate("01.06", "18:00", now)
	if err != nil {
		t.Fatalf("ParseFireDate error: %v", err)
	}
	if got != "01.06.2024" {
		t.Fatalf("got %q, want 01.06.2024", got)
	}
}

func TestParseFireDate_Invalid(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "tomorrow", "32.01", "12.13.2024"} {
		if _, err := ParseFireDate(in, "09:00", now); err == nil {
			t.Fatalf("ParseFireDate(%q) expected error", in)
		}
	}
}

func TestInOneHour(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 30, 0, 0, time.UTC)
	date, clock := InOneHour(now)
	if date != "01.01.2025" || clock != "00:30" {
		t.Fatalf("InOneHour = %s %s, want 01.01.2025 00:30", date, clock)
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusOpen.Toggle() != StatusDone || StatusDone.Toggle() != StatusOpen {
		t.Fatal("status toggle must flip between open and done")
	}
}
