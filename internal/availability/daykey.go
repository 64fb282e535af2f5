package availability

import (
	"strconv"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

// MinutesUnknown is the sentinel returned by MinutesOfDay for input it
// cannot parse. Callers treat it as "no constraint": an unknown time never
// blocks a date or declares a conflict.
const MinutesUnknown = -1

// DayKey returns the zero-padded YYYY-MM-DD key for the date's own local
// calendar day. No timezone conversion is performed; keys are compared as
// opaque calendar-day identifiers.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// AddDays returns the day key n days after (n > 0) or before (n < 0) the
// given key, rolling over month and year boundaries. A malformed key yields
// "", which never matches a real day key.
func AddDays(key string, n int) string {
	t, err := time.Parse(dayKeyLayout, strings.TrimSpace(key))
	if err != nil {
		return ""
	}
	return DayKey(t.AddDate(0, 0, n))
}

// MinutesOfDay parses "HH:MM" (optionally "HH:MM:SS", seconds discarded)
// into minutes since midnight, 0-1439. Empty or invalid input yields
// MinutesUnknown.
func MinutesOfDay(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return MinutesUnknown
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return MinutesUnknown
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return MinutesUnknown
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return MinutesUnknown
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return MinutesUnknown
	}

	return hour*60 + minute
}
