package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a day-independent "HH:MM" wall-clock time. It only becomes
// an absolute instant when resolved against a reference date, which is how
// task anchors stay valid across days.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string. The hour and minute must be
// numeric; range clamping is left to the caller.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, ErrInvalidClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, ErrInvalidClock
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// Resolve places the clock time on the given reference date, in the
// reference date's location.
func (c ClockTime) Resolve(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour, c.Minute, 0, 0, ref.Location())
}

// String renders the clock time back to "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
