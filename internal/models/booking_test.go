package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHourlyBooking_Normalizes(t *testing.T) {
	b := NewHourlyBooking("2025-01-12T00:00:00Z", "09:00:45", " 11:00 ", " CONFIRMED ")

	assert.Equal(t, "2025-01-12", b.Date)
	assert.Equal(t, "09:00", b.CheckInTime)
	assert.Equal(t, "11:00", b.CheckOutTime)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestHourlyBooking_NormalizedIdempotent(t *testing.T) {
	b := NewHourlyBooking("2025-01-12", "09:00:00", "11:00:00", "PENDING")
	assert.Equal(t, b, b.Normalized())
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-01-10", NormalizeDate("2025-01-10"))
	assert.Equal(t, "2025-01-10", NormalizeDate("  2025-01-10  "))
	assert.Equal(t, "2025-01-10", NormalizeDate("2025-01-10T15:04:05Z"))
	assert.Equal(t, "2025-01-10", NormalizeDate("2025-01-10 15:04:05"))
	assert.Equal(t, "", NormalizeDate(""))
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "09:00", NormalizeTime("09:00"))
	assert.Equal(t, "09:00", NormalizeTime("09:00:45"))
	assert.Equal(t, "23:59", NormalizeTime(" 23:59:59 "))
	assert.Equal(t, "", NormalizeTime(""))
	assert.Equal(t, "junk", NormalizeTime("junk"))
}
