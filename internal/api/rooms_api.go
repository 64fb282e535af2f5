package api

import (
	"fmt"
	"net/http"
	"time"

	"vacancy/internal/availability"
	"vacancy/internal/metrics"
)

const (
	// MaxAvailabilityDaysRange is the maximum number of days allowed in an
	// availability request.
	MaxAvailabilityDaysRange = 90

	dateLayout = "2006-01-02"
)

// AvailabilityRequest is the request body for POST /api/rooms/availability.
type AvailabilityRequest struct {
	RoomID    int64  `json:"room_id"`
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
}

// DateAvailability represents selectability for a single date.
type DateAvailability struct {
	Date               string `json:"date"`
	OvernightAvailable bool   `json:"overnight_available"`
	HourlyAvailable    bool   `json:"hourly_available"`
	// SingleNightOnly marks selectable check-in dates whose checkout is
	// forced to the next day, so the form hides the checkout picker.
	SingleNightOnly bool `json:"single_night_only,omitempty"`
}

// AvailabilityResponse is the response for POST /api/rooms/availability.
type AvailabilityResponse struct {
	RoomID int64              `json:"room_id"`
	Dates  []DateAvailability `json:"dates"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
	// Degraded is set when the upstream snapshot could not be fetched and
	// nothing is blocked; the form should warn the user.
	Degraded bool `json:"degraded,omitempty"`
}

// handleRoomAvailability returns per-date selectability for a room within a
// date range.
// POST /api/rooms/availability
func (s *HTTPServer) handleRoomAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("room_availability")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, endDate, err := validateAvailabilityRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, degraded := s.fetchSnapshot(r.Context(), req.RoomID)
	resolver := availability.NewFromSnapshot(snap, s.rules)

	blockedOvernight := toSet(resolver.BlockedOvernightDates())
	blockedHourly := toSet(resolver.BlockedHourlyDates())

	dates := make([]DateAvailability, 0)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := availability.DayKey(d)
		overnightOK := !blockedOvernight[key]

		_, singleNight := resolver.SuggestedCheckout(key)
		dates = append(dates, DateAvailability{
			Date:               key,
			OvernightAvailable: overnightOK,
			HourlyAvailable:    !blockedHourly[key],
			SingleNightOnly:    overnightOK && singleNight,
		})
	}

	response := AvailabilityResponse{
		RoomID:   req.RoomID,
		Dates:    dates,
		Degraded: degraded,
	}
	response.Period.Start = req.StartDate
	response.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, response)
}

func validateAvailabilityRequest(req *AvailabilityRequest) (start, end time.Time, err error) {
	if req.RoomID <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("room_id is required")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}

	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before or equal to end_date")
	}

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days > MaxAvailabilityDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of 90 days")
	}

	return startDate, endDate, nil
}

// CheckOvernightRequest is the request body for POST /api/rooms/check-overnight.
type CheckOvernightRequest struct {
	RoomID      int64  `json:"room_id"`
	CheckInDate string `json:"check_in_date"` // Format: YYYY-MM-DD
}

// CheckOvernightResponse is the verdict on a candidate overnight check-in.
type CheckOvernightResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"` // "date_blocked", "next_day_hourly_conflict"
	// CheckoutDate is set when the stay is limited to a single night; the
	// form auto-fills it and hides the checkout picker.
	CheckoutDate   string `json:"checkout_date,omitempty"`
	CheckoutLocked bool   `json:"checkout_locked"`
	Degraded       bool   `json:"degraded,omitempty"`
}

// handleCheckOvernight validates a candidate overnight check-in date.
// POST /api/rooms/check-overnight
func (s *HTTPServer) handleCheckOvernight(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("check_overnight")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CheckOvernightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RoomID <= 0 {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}
	if _, err := time.Parse(dateLayout, req.CheckInDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_in_date format; expected YYYY-MM-DD")
		return
	}

	snap, degraded := s.fetchSnapshot(r.Context(), req.RoomID)
	resolver := availability.NewFromSnapshot(snap, s.rules)

	resp := CheckOvernightResponse{Degraded: degraded}

	switch {
	case toSet(resolver.BlockedOvernightDates())[req.CheckInDate]:
		resp.Reason = "date_blocked"
		metrics.IncConflict("overnight")
	case resolver.NextDayHourlyConflict(req.CheckInDate):
		resp.Reason = "next_day_hourly_conflict"
		metrics.IncConflict("next_day_hourly")
	default:
		resp.Allowed = true
		if checkout, locked := resolver.SuggestedCheckout(req.CheckInDate); locked {
			resp.CheckoutDate = checkout
			resp.CheckoutLocked = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// CheckHourlyRequest is the request body for POST /api/rooms/check-hourly.
type CheckHourlyRequest struct {
	RoomID        int64  `json:"room_id"`
	Date          string `json:"date"`          // Format: YYYY-MM-DD
	CheckInTime   string `json:"check_in_time"` // Format: HH:MM
	DurationHours int    `json:"duration_hours"`
}

// CheckHourlyResponse is the verdict on a candidate hourly booking.
type CheckHourlyResponse struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"` // "date_blocked", "overlap"
	Degraded bool   `json:"degraded,omitempty"`
}

// handleCheckHourly validates a candidate hourly start time and duration.
// POST /api/rooms/check-hourly
func (s *HTTPServer) handleCheckHourly(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("check_hourly")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CheckHourlyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RoomID <= 0 {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	if req.DurationHours <= 0 {
		writeError(w, http.StatusBadRequest, "duration_hours must be positive")
		return
	}

	snap, degraded := s.fetchSnapshot(r.Context(), req.RoomID)
	resolver := availability.NewFromSnapshot(snap, s.rules)

	resp := CheckHourlyResponse{Degraded: degraded}

	switch {
	case toSet(resolver.BlockedHourlyDates())[req.Date]:
		resp.Reason = "date_blocked"
		metrics.IncConflict("hourly_date")
	case resolver.HasHourlyOverlap(req.Date, req.CheckInTime, req.DurationHours):
		resp.Reason = "overlap"
		metrics.IncConflict("hourly_overlap")
	default:
		resp.Allowed = true
	}

	writeJSON(w, http.StatusOK, resp)
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
