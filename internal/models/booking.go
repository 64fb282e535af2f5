package models

import "strings"

// Booking lifecycle statuses as delivered by the upstream booking system.
// The status is carried through for display; it does not participate in
// conflict math.
const (
	StatusConfirmed = "CONFIRMED"
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
)

// HourlyBooking is one existing time-based reservation on a room.
// Upstream records are loosely shaped (check-in times arrive as "HH:MM" or
// "HH:MM:SS", dates sometimes carry a time suffix), so every record must
// pass through NewHourlyBooking or Normalized before use.
type HourlyBooking struct {
	Date         string `json:"date"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	Status       string `json:"status"`
}

// NewHourlyBooking builds an hourly booking with all fields in canonical
// form.
func NewHourlyBooking(date, checkIn, checkOut, status string) HourlyBooking {
	return HourlyBooking{
		Date:         NormalizeDate(date),
		CheckInTime:  NormalizeTime(checkIn),
		CheckOutTime: NormalizeTime(checkOut),
		Status:       strings.TrimSpace(status),
	}
}

// Normalized returns a copy with date and time fields in canonical form.
// Applying it twice yields the same value.
func (b HourlyBooking) Normalized() HourlyBooking {
	return NewHourlyBooking(b.Date, b.CheckInTime, b.CheckOutTime, b.Status)
}

// RoomAvailability is the read-only per-room snapshot returned by the
// booking API: calendar days already occupied overnight plus all existing
// hourly reservations. It is fetched fresh whenever a room is selected and
// never mutated.
type RoomAvailability struct {
	BookedDates       []string        `json:"bookedDates"`
	TimeBasedBookings []HourlyBooking `json:"timeBasedBookings"`
}

// NormalizeDate reduces a date-like string to its YYYY-MM-DD day key: it
// trims whitespace and drops any time suffix, so "2025-01-10T00:00:00Z"
// becomes "2025-01-10". It does not validate the calendar day itself.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	return s
}

// NormalizeTime trims a time-of-day string and drops the seconds component
// if present: "09:00:00" becomes "09:00".
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 2 {
		s = s[:strings.LastIndex(s, ":")]
	}
	return s
}
