package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString is returned when a string cannot be parsed as HH:MM[:SS]
var ErrInvalidTimeString = errors.New("invalid time string")

const minutesPerDay = 24 * 60

// TimeString represents a time of day with minute precision, always rendered as "HH:MM"
type TimeString struct {
	minutes int
}

// NewTimeStringFromMinutes builds a TimeString from minutes since midnight
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes is outside of a day", ErrInvalidTimeString, minutes)
	}
	return TimeString{minutes: minutes}, nil
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS".
// Single-digit components ("9:5") are accepted and normalized, seconds are dropped.
// "24:00" is accepted as the end of the day.
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hour, err := parseComponent(parts[0], 24)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q: hour: %v", ErrInvalidTimeString, s, err)
	}
	minute, err := parseComponent(parts[1], 59)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q: minute: %v", ErrInvalidTimeString, s, err)
	}
	if len(parts) == 3 {
		if _, err := parseComponent(parts[2], 59); err != nil {
			return TimeString{}, fmt.Errorf("%w: %q: second: %v", ErrInvalidTimeString, s, err)
		}
	}
	if hour == 24 && minute != 0 {
		return TimeString{}, fmt.Errorf("%w: %q is past the end of the day", ErrInvalidTimeString, s)
	}

	return TimeString{minutes: hour*60 + minute}, nil
}

func parseComponent(s string, max int) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("bad length %d", len(s))
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("%d out of range 0..%d", v, max)
	}
	return v, nil
}

// Minutes returns minutes since midnight
func (t TimeString) Minutes() int {
	return t.minutes
}

// Hour returns the hour component (0-24)
func (t TimeString) Hour() int {
	return t.minutes / 60
}

// Minute returns the minute component
func (t TimeString) Minute() int {
	return t.minutes % 60
}

// AddMinutes returns t shifted by n minutes; the result must stay within the day
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	return NewTimeStringFromMinutes(t.minutes + n)
}

// IsBefore reports whether t is strictly earlier than other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter reports whether t is strictly later than other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// Equal reports whether both represent the same minute
func (t TimeString) Equal(other TimeString) bool {
	return t.minutes == other.minutes
}

// On places t on the calendar day of date in loc.
// The wall clock is kept on days with a DST transition.
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// String returns the zero-padded "HH:MM" form
func (t TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Label12h returns a 12-hour clock label such as "9:00 AM" or "12:30 PM"
func (t TimeString) Label12h() string {
	hour := t.Hour() % 24
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, t.Minute(), suffix)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeString) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeString) UnmarshalText(data []byte) error {
	parsed, err := NewTimeStringFromString(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
