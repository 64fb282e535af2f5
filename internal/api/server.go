package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vacancy/internal/availability"
	"vacancy/internal/models"
)

// RoomSource provides per-room booking snapshots. Implemented by the hotel
// booking API client; tests substitute a stub.
type RoomSource interface {
	RoomBookings(ctx context.Context, roomID int64) (*models.RoomAvailability, error)
}

// HTTPServer serves the availability gateway endpoints consumed by the
// booking form.
type HTTPServer struct {
	server *http.Server
	rooms  RoomSource
	rules  availability.Rules
	apiKey string
	log    *zerolog.Logger
}

// NewHTTPServer constructs the gateway server. An empty apiKey disables
// authentication.
func NewHTTPServer(addr, apiKey string, rooms RoomSource, rules availability.Rules, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		rooms:  rooms,
		rules:  rules,
		apiKey: apiKey,
		log:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rooms/availability", s.withAuth(s.handleRoomAvailability))
	mux.HandleFunc("/api/rooms/check-overnight", s.withAuth(s.handleCheckOvernight))
	mux.HandleFunc("/api/rooms/check-hourly", s.withAuth(s.handleCheckHourly))

	s.server = &http.Server{Addr: addr, Handler: s.withRequestID(mux)}
	return s
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		s.log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("http request")

		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-Api-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next(w, r)
	}
}

// fetchSnapshot loads the room's booking snapshot. On upstream failure the
// gateway degrades to an empty snapshot (nothing blocked) and marks the
// response as degraded; the form warns the user and correctness is deferred
// to a later refetch.
func (s *HTTPServer) fetchSnapshot(ctx context.Context, roomID int64) (*models.RoomAvailability, bool) {
	snap, err := s.rooms.RoomBookings(ctx, roomID)
	if err != nil {
		s.log.Warn().Err(err).
			Int64("room_id", roomID).
			Msg("room snapshot fetch failed; serving permissive fallback")
		return &models.RoomAvailability{}, true
	}
	return snap, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}
