package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"workdays/internal/holidays"
	"workdays/internal/logging"
	"workdays/internal/metrics"
	"workdays/internal/model"
	"workdays/internal/service"
)

const usage = "Working Days API - GET /api/working-date?days=...&hours=...&date=..."

// Snapshots exposes the holiday snapshot currently in use.
type Snapshots interface {
	Current() *holidays.Snapshot
	Ready() bool
}

type Server struct {
	Service  *service.Service
	Holidays Snapshots
	// ServeMetrics mounts /metrics on the API mux.
	ServeMetrics bool
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(usage))
	})
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/working-date", s.handleWorkingDate)
	mux.HandleFunc("/api/holidays", s.handleHolidays)
	if s.ServeMetrics {
		mux.Handle("/metrics", metrics.Handler())
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, model.ErrNotFound, "route not found")
	})

	return requestID(observe(recoverer(mux)))
}

func (s *Server) handleWorkingDate(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	req, err := service.ParseRequest(q.Get("days"), q.Get("hours"), q.Get("date"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.Service.Compute(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncComputation("ok")
	writeJSON(w, http.StatusOK, model.DateResponse{Date: service.FormatUTC(t)})
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, model.ErrServiceUnavailable, "holiday list not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, model.HolidaysResponse{
		Source:     snap.Source,
		FetchedAt:  service.FormatUTC(snap.FetchedAt),
		AgeSeconds: int64(snap.Age(time.Now()).Seconds()),
		Count:      snap.Holidays.Len(),
		Dates:      snap.Holidays.Strings(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Holidays == nil || !s.Holidays.Ready() {
		writeError(w, http.StatusServiceUnavailable, model.ErrServiceUnavailable, "holiday list not loaded yet")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) snapshot() *holidays.Snapshot {
	if s.Holidays == nil {
		return nil
	}
	return s.Holidays.Current()
}

// fail maps an error onto one of the three public categories.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidParameters):
		metrics.IncComputation("invalid")
		writeError(w, http.StatusBadRequest, model.ErrInvalidParameters, err.Error())
	case errors.Is(err, holidays.ErrUnavailable):
		metrics.IncComputation("unavailable")
		logging.Warn("holidays_unavailable", map[string]any{"request_id": RequestIDFrom(r.Context()), "error": err.Error()})
		writeError(w, http.StatusServiceUnavailable, model.ErrServiceUnavailable, "holiday list is unavailable, try again later")
	default:
		metrics.IncComputation("error")
		logging.Error("working_date_error", map[string]any{"request_id": RequestIDFrom(r.Context()), "error": err.Error()})
		writeError(w, http.StatusInternalServerError, model.ErrInternal, "internal error")
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, model.ErrMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind model.ErrorCode, msg string) {
	writeJSON(w, code, model.APIError{Error: kind, Message: msg})
}

// Start serves h on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func Start(ctx context.Context, addr string, h http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("http_shutdown_error", map[string]any{"error": err.Error()})
		}
	}()
	logging.Info("http_listening", map[string]any{"addr": addr})
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}
