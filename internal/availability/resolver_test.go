package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vacancy/internal/models"
)

func hourly(date, checkIn, checkOut string) models.HourlyBooking {
	return models.NewHourlyBooking(date, checkIn, checkOut, models.StatusConfirmed)
}

func TestBlockedOvernightDates_PlainOccupiedNight(t *testing.T) {
	r := New([]string{"2025-03-05"}, nil, DefaultRules())

	assert.Equal(t, []string{"2025-03-05"}, r.BlockedOvernightDates())
	assert.Equal(t, []string{"2025-03-05"}, r.BlockedHourlyDates())
}

func TestBlockedOvernightDates_AfternoonOnly(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-05", "14:00", "16:00")}, DefaultRules())

	assert.Equal(t, []string{"2025-03-05"}, r.BlockedOvernightDates())
	assert.Empty(t, r.BlockedHourlyDates())
}

func TestBlockedOvernightDates_MorningBlocksPreviousDay(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-05", "08:00", "10:00")}, DefaultRules())

	blocked := r.BlockedOvernightDates()
	assert.Contains(t, blocked, "2025-03-04")
	assert.NotContains(t, blocked, "2025-03-05")
}

func TestBlockedOvernightDates_MixedOccupancy(t *testing.T) {
	r := New(
		[]string{"2025-03-05"},
		[]models.HourlyBooking{hourly("2025-03-05", "14:00", "16:00")},
		DefaultRules(),
	)

	assert.Equal(t, []string{"2025-03-05"}, r.BlockedOvernightDates())
}

func TestBlockedOvernightDates_NoonHourly(t *testing.T) {
	// A booking at exactly 12:00 is classified afternoon (blocks its own
	// date) and also starts at the checkout time (blocks the previous day).
	r := New(nil, []models.HourlyBooking{hourly("2025-03-05", "12:00", "14:00")}, DefaultRules())

	assert.Equal(t, []string{"2025-03-04", "2025-03-05"}, r.BlockedOvernightDates())
}

func TestBlockedOvernightDates_CustomCheckoutTime(t *testing.T) {
	rules := Rules{CheckoutTime: "10:00", BufferMinutes: 60}
	// 11:00 start is after the 10:00 checkout, so rule 4 does not fire, but
	// the morning rule still blocks the previous day.
	r := New(nil, []models.HourlyBooking{hourly("2025-03-05", "11:00", "12:00")}, rules)

	blocked := r.BlockedOvernightDates()
	assert.Contains(t, blocked, "2025-03-04")
	assert.NotContains(t, blocked, "2025-03-05")
}

func TestBlockedOvernightDates_UnparseableTimeBlocksNothing(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-05", "", "")}, DefaultRules())

	assert.Empty(t, r.BlockedOvernightDates())
}

func TestBlockedOvernightDates_MonthBoundary(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-01", "09:00", "10:00")}, DefaultRules())

	assert.Equal(t, []string{"2025-02-28"}, r.BlockedOvernightDates())
}

func TestBlockedOvernightDates_SortedAndDeduplicated(t *testing.T) {
	r := New(
		[]string{"2025-03-09", "2025-03-02"},
		[]models.HourlyBooking{
			hourly("2025-03-05", "09:00", "10:00"),
			hourly("2025-03-05", "11:00", "11:30"),
		},
		DefaultRules(),
	)

	assert.Equal(t, []string{"2025-03-02", "2025-03-04", "2025-03-09"}, r.BlockedOvernightDates())
}

func TestBlockedDates_EmptyCollections(t *testing.T) {
	r := New(nil, nil, DefaultRules())

	assert.Empty(t, r.BlockedOvernightDates())
	assert.Empty(t, r.BlockedHourlyDates())
	assert.False(t, r.HasHourlyOverlap("2025-03-05", "10:00", 2))
	assert.False(t, r.NextDayHourlyConflict("2025-03-05"))
}

func TestBlockedHourlyDates_IndependentOfHourlyBookings(t *testing.T) {
	r := New(
		[]string{"2025-03-05", "2025-03-08"},
		[]models.HourlyBooking{
			hourly("2025-03-05", "09:00", "10:00"),
			hourly("2025-03-06", "14:00", "16:00"),
		},
		DefaultRules(),
	)

	assert.Equal(t, []string{"2025-03-05", "2025-03-08"}, r.BlockedHourlyDates())
}

func TestHasHourlyOverlap_TrailingBuffer(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, DefaultRules())

	// Inside the 60-minute buffer after the 11:00 end.
	assert.True(t, r.HasHourlyOverlap("2025-03-06", "11:30", 1))
	assert.True(t, r.HasHourlyOverlap("2025-03-06", "11:59", 1))
	// Exactly 60 minutes after the end is the first allowed start.
	assert.False(t, r.HasHourlyOverlap("2025-03-06", "12:00", 1))
	assert.False(t, r.HasHourlyOverlap("2025-03-06", "12:01", 1))
}

func TestHasHourlyOverlap_CandidateEndsAtExistingStart(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, DefaultRules())

	// No buffer on the candidate's own end: finishing exactly at the
	// existing start is allowed.
	assert.False(t, r.HasHourlyOverlap("2025-03-06", "07:00", 2))
	assert.True(t, r.HasHourlyOverlap("2025-03-06", "07:00", 3))
}

func TestHasHourlyOverlap_Containment(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "12:00")}, DefaultRules())

	assert.True(t, r.HasHourlyOverlap("2025-03-06", "10:00", 1))
	assert.True(t, r.HasHourlyOverlap("2025-03-06", "08:00", 6))
}

func TestHasHourlyOverlap_NoBookingsOnDate(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, DefaultRules())

	assert.False(t, r.HasHourlyOverlap("2025-03-07", "09:30", 1))
}

func TestHasHourlyOverlap_MalformedCandidateStart(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, DefaultRules())

	assert.False(t, r.HasHourlyOverlap("2025-03-06", "", 1))
	assert.False(t, r.HasHourlyOverlap("2025-03-06", "garbage", 1))
}

func TestHasHourlyOverlap_CustomBuffer(t *testing.T) {
	rules := Rules{CheckoutTime: "12:00", BufferMinutes: 30}
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, rules)

	assert.True(t, r.HasHourlyOverlap("2025-03-06", "11:29", 1))
	assert.False(t, r.HasHourlyOverlap("2025-03-06", "11:30", 1))
}

func TestHasHourlyOverlap_SecondsInExistingTimes(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00:00", "11:00:00")}, DefaultRules())

	assert.True(t, r.HasHourlyOverlap("2025-03-06", "10:00", 1))
}

func TestNextDayHourlyConflict(t *testing.T) {
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")}, DefaultRules())

	assert.True(t, r.NextDayHourlyConflict("2025-03-05"))
	assert.False(t, r.NextDayHourlyConflict("2025-03-06"))
	assert.False(t, r.NextDayHourlyConflict("2025-03-04"))
}

func TestNextDayHourlyConflict_CheckoutBoundary(t *testing.T) {
	atNoon := New(nil, []models.HourlyBooking{hourly("2025-03-06", "12:00", "14:00")}, DefaultRules())
	assert.True(t, atNoon.NextDayHourlyConflict("2025-03-05"))

	afterNoon := New(nil, []models.HourlyBooking{hourly("2025-03-06", "12:01", "14:00")}, DefaultRules())
	assert.False(t, afterNoon.NextDayHourlyConflict("2025-03-05"))
}

func TestNextDayHourlyConflict_CustomCheckoutTime(t *testing.T) {
	rules := Rules{CheckoutTime: "11:00", BufferMinutes: 60}
	r := New(nil, []models.HourlyBooking{hourly("2025-03-06", "11:30", "13:00")}, rules)

	assert.False(t, r.NextDayHourlyConflict("2025-03-05"))
}

func TestIsBetweenTwoBookedNights(t *testing.T) {
	r := New([]string{"2025-03-05", "2025-03-07"}, nil, DefaultRules())

	assert.True(t, r.IsBetweenTwoBookedNights("2025-03-06"))
	assert.False(t, r.IsBetweenTwoBookedNights("2025-03-05"))
	assert.False(t, r.IsBetweenTwoBookedNights("2025-03-08"))
}

func TestIsFollowedByBookedNight(t *testing.T) {
	r := New([]string{"2025-03-07"}, nil, DefaultRules())

	assert.True(t, r.IsFollowedByBookedNight("2025-03-06"))
	assert.False(t, r.IsFollowedByBookedNight("2025-03-07"))
}

func TestSuggestedCheckout(t *testing.T) {
	r := New([]string{"2025-03-05", "2025-03-07"}, nil, DefaultRules())

	checkout, locked := r.SuggestedCheckout("2025-03-06")
	assert.True(t, locked)
	assert.Equal(t, "2025-03-07", checkout)

	checkout, locked = r.SuggestedCheckout("2025-03-10")
	assert.False(t, locked)
	assert.Empty(t, checkout)
}

func TestResolver_Idempotent(t *testing.T) {
	r := New(
		[]string{"2025-03-05", "2025-03-07"},
		[]models.HourlyBooking{
			hourly("2025-03-06", "09:00", "11:00"),
			hourly("2025-03-10", "14:00", "16:00"),
		},
		DefaultRules(),
	)

	assert.Equal(t, r.BlockedOvernightDates(), r.BlockedOvernightDates())
	assert.Equal(t, r.BlockedHourlyDates(), r.BlockedHourlyDates())
	assert.Equal(t,
		r.HasHourlyOverlap("2025-03-06", "11:30", 1),
		r.HasHourlyOverlap("2025-03-06", "11:30", 1),
	)
	assert.Equal(t,
		r.NextDayHourlyConflict("2025-03-05"),
		r.NextDayHourlyConflict("2025-03-05"),
	)
}

func TestNewFromSnapshot(t *testing.T) {
	snap := &models.RoomAvailability{
		BookedDates:       []string{"2025-03-05"},
		TimeBasedBookings: []models.HourlyBooking{hourly("2025-03-06", "09:00", "11:00")},
	}
	r := NewFromSnapshot(snap, DefaultRules())

	assert.Contains(t, r.BlockedOvernightDates(), "2025-03-05")
	assert.True(t, r.NextDayHourlyConflict("2025-03-05"))

	empty := NewFromSnapshot(nil, DefaultRules())
	assert.Empty(t, empty.BlockedOvernightDates())
}
