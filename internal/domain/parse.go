package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire formats for schedule fields. Kept as strings end to end: the store
// persists them verbatim and the schedulers compare them against the current
// wall clock formatted the same way.
const (
	ClockLayout = "15:04"
	DateLayout  = "02.01.2006"
)

var (
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
	ErrInvalidDate  = errors.New("invalid date, expected DD.MM or DD.MM.YYYY")
)

// ParseClock validates a wall-clock string and returns it normalized to
// zero-padded HH:MM ("9:5" -> "09:05").
func ParseClock(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return "", ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("%w: bad hour %q", ErrInvalidClock, parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("%w: bad minute %q", ErrInvalidClock, parts[1])
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// ParseFireDate accepts "DD.MM.YYYY" or "DD.MM". A year-less date is placed
// in the current year; if that moment (combined with clock) is already in
// the past, it rolls into the next year.
func ParseFireDate(s, clock string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)

	if t, err := time.ParseInLocation(DateLayout, s, now.Location()); err == nil {
		return t.Format(DateLayout), nil
	}

	t, err := time.ParseInLocation("02.01", s, now.Location())
	if err != nil {
		return "", ErrInvalidDate
	}

	hh, mm := 0, 0
	if c, err := ParseClock(clock); err == nil {
		hh, _ = strconv.Atoi(c[:2])
		mm, _ = strconv.Atoi(c[3:])
	}
	candidate := time.Date(now.Year(), t.Month(), t.Day(), hh, mm, 0, 0, now.Location())
	if candidate.Before(now) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate.Format(DateLayout), nil
}

// DateAfter formats the date that is n days from now.
func DateAfter(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(DateLayout)
}

// InOneHour returns the date and clock strings for now+1h, used by the
// "in 1 hour" notification preset.
func InOneHour(now time.Time) (date, clock string) {
	t := now.Add(time.Hour)
	return t.Format(DateLayout), t.Format(ClockLayout)
}
