package availability

import (
	"sort"

	"vacancy/internal/models"
)

// noonMinutes separates morning hourly bookings from afternoon ones.
const noonMinutes = 12 * 60

// Rules carries the tunables of the conflict engine. The zero value is
// usable: missing fields fall back to the hotel defaults.
type Rules struct {
	// CheckoutTime is the hotel's standard overnight checkout, "HH:MM".
	CheckoutTime string
	// BufferMinutes is the mandatory turnover gap after an existing hourly
	// booking's end before a new hourly booking may start.
	BufferMinutes int
}

// DefaultRules returns the standard hotel rules: noon checkout, one hour of
// turnover between hourly guests.
func DefaultRules() Rules {
	return Rules{CheckoutTime: "12:00", BufferMinutes: 60}
}

func (r Rules) checkoutMinutes() int {
	if m := MinutesOfDay(r.CheckoutTime); m != MinutesUnknown {
		return m
	}
	return noonMinutes
}

func (r Rules) bufferMinutes() int {
	if r.BufferMinutes <= 0 {
		return 60
	}
	return r.BufferMinutes
}

// Resolver answers date and time-slot selectability questions for a single
// room, given read-only snapshots of its existing overnight and hourly
// bookings. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	rules   Rules
	regular map[string]bool
	hourly  map[string][]models.HourlyBooking
}

// New builds a resolver over the two snapshot collections. Nil or empty
// collections are valid and block nothing, so a resolver over not-yet-loaded
// data degrades to "everything selectable".
func New(regularDates []string, hourly []models.HourlyBooking, rules Rules) *Resolver {
	r := &Resolver{
		rules:   rules,
		regular: make(map[string]bool, len(regularDates)),
		hourly:  make(map[string][]models.HourlyBooking, len(hourly)),
	}

	for _, d := range regularDates {
		if key := models.NormalizeDate(d); key != "" {
			r.regular[key] = true
		}
	}
	for _, b := range hourly {
		nb := b.Normalized()
		if nb.Date == "" {
			continue
		}
		r.hourly[nb.Date] = append(r.hourly[nb.Date], nb)
	}

	return r
}

// NewFromSnapshot builds a resolver over a fetched room snapshot. A nil
// snapshot behaves like empty collections.
func NewFromSnapshot(snap *models.RoomAvailability, rules Rules) *Resolver {
	if snap == nil {
		return New(nil, nil, rules)
	}
	return New(snap.BookedDates, snap.TimeBasedBookings, rules)
}

// BlockedOvernightDates returns every calendar day on which a new overnight
// stay must not start. The result is the union of five independent rule
// sets, deduplicated and sorted.
func (r *Resolver) BlockedOvernightDates() []string {
	return sortedKeys(r.blockedOvernightSet())
}

func (r *Resolver) blockedOvernightSet() map[string]bool {
	blocked := make(map[string]bool)
	r.blockPlainOccupiedNights(blocked)
	r.blockAfternoonOnlyDates(blocked)
	r.blockMixedOccupancyDates(blocked)
	r.blockBeforeEarlyHourly(blocked)
	r.blockBeforeMorningHourly(blocked)
	return blocked
}

// Rule 1: a regular booking with no hourly booking that day takes the whole
// night.
func (r *Resolver) blockPlainOccupiedNights(blocked map[string]bool) {
	for date := range r.regular {
		if len(r.hourly[date]) == 0 {
			blocked[date] = true
		}
	}
}

// Rule 2: an overnight stay starting on a date with an afternoon hourly
// guest (check-in at or after noon) would run into that guest's occupancy.
// Only fires when the date has no regular booking of its own.
func (r *Resolver) blockAfternoonOnlyDates(blocked map[string]bool) {
	for date, bookings := range r.hourly {
		if r.regular[date] {
			continue
		}
		for _, b := range bookings {
			if m := MinutesOfDay(b.CheckInTime); m != MinutesUnknown && m >= noonMinutes {
				blocked[date] = true
				break
			}
		}
	}
}

// Rule 3: a date carrying both a regular and an hourly booking is fully
// occupied by definition.
func (r *Resolver) blockMixedOccupancyDates(blocked map[string]bool) {
	for date := range r.hourly {
		if r.regular[date] {
			blocked[date] = true
		}
	}
}

// Rule 4: an overnight guest checking out at the standard checkout time
// would meet an hourly guest arriving at or before that time the next
// morning, so the previous day is blocked.
func (r *Resolver) blockBeforeEarlyHourly(blocked map[string]bool) {
	checkout := r.rules.checkoutMinutes()
	for date, bookings := range r.hourly {
		for _, b := range bookings {
			m := MinutesOfDay(b.CheckInTime)
			if m == MinutesUnknown || m > checkout {
				continue
			}
			if prev := AddDays(date, -1); prev != "" {
				blocked[prev] = true
			}
			break
		}
	}
}

// Rule 5: a morning hourly guest (check-in before noon) conflicts with a
// standard overnight checkout regardless of the configured checkout time.
// Fires independently of rule 4; the union removes the overlap.
func (r *Resolver) blockBeforeMorningHourly(blocked map[string]bool) {
	for date, bookings := range r.hourly {
		for _, b := range bookings {
			m := MinutesOfDay(b.CheckInTime)
			if m == MinutesUnknown || m >= noonMinutes {
				continue
			}
			if prev := AddDays(date, -1); prev != "" {
				blocked[prev] = true
			}
			break
		}
	}
}

// BlockedHourlyDates returns every calendar day ineligible for a new hourly
// booking: exactly the dates with a regular booking. Dates carrying only
// hourly bookings stay open for additional non-overlapping hourly stays.
func (r *Resolver) BlockedHourlyDates() []string {
	return sortedKeys(r.regular)
}

// HasHourlyOverlap reports whether a new hourly booking on date, starting at
// start ("HH:MM") and lasting durationHours, would collide with an existing
// hourly booking on the same date. Each existing booking's end is extended
// by the turnover buffer; the candidate's own end gets no buffer. An
// unparseable start time constrains nothing.
func (r *Resolver) HasHourlyOverlap(date, start string, durationHours int) bool {
	startMin := MinutesOfDay(start)
	if startMin == MinutesUnknown {
		return false
	}
	endMin := startMin + durationHours*60
	buffer := r.rules.bufferMinutes()

	for _, b := range r.hourly[models.NormalizeDate(date)] {
		existingStart := MinutesOfDay(b.CheckInTime)
		existingEnd := MinutesOfDay(b.CheckOutTime)
		if existingStart == MinutesUnknown || existingEnd == MinutesUnknown {
			continue
		}
		if startMin < existingEnd+buffer && endMin > existingStart {
			return true
		}
	}
	return false
}

// NextDayHourlyConflict reports whether the day after checkInDate has an
// hourly booking starting at or before the checkout time, which rules out
// an overnight stay beginning on checkInDate.
func (r *Resolver) NextDayHourlyConflict(checkInDate string) bool {
	next := AddDays(models.NormalizeDate(checkInDate), 1)
	if next == "" {
		return false
	}
	checkout := r.rules.checkoutMinutes()
	for _, b := range r.hourly[next] {
		if m := MinutesOfDay(b.CheckInTime); m != MinutesUnknown && m <= checkout {
			return true
		}
	}
	return false
}

// IsBetweenTwoBookedNights reports whether date is a single free night
// sandwiched between two booked nights. A stay starting there can only last
// one night.
func (r *Resolver) IsBetweenTwoBookedNights(date string) bool {
	key := models.NormalizeDate(date)
	if key == "" {
		return false
	}
	return r.regular[AddDays(key, -1)] && r.regular[AddDays(key, 1)]
}

// IsFollowedByBookedNight reports whether the night after date is already
// booked, forcing a new stay starting on date to a single night.
func (r *Resolver) IsFollowedByBookedNight(date string) bool {
	key := models.NormalizeDate(date)
	if key == "" {
		return false
	}
	return r.regular[AddDays(key, 1)]
}

// SuggestedCheckout returns the forced checkout day and true when a stay
// starting on checkIn can only last a single night, so the checkout picker
// can be hidden and auto-filled.
func (r *Resolver) SuggestedCheckout(checkIn string) (string, bool) {
	key := models.NormalizeDate(checkIn)
	if key == "" {
		return "", false
	}
	if r.IsBetweenTwoBookedNights(key) || r.IsFollowedByBookedNight(key) {
		return AddDays(key, 1), true
	}
	return "", false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
