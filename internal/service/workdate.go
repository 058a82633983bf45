package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"workdays/internal/schedule"
)

// ErrInvalidParameters is wrapped by every request validation error.
var ErrInvalidParameters = errors.New("invalid parameters")

// Upper bounds on a single query. They keep the minute arithmetic far from
// overflow and the day walk short enough for a request handler.
const (
	MaxDays  = 100_000
	MaxHours = 1_000_000
)

// Request is a validated working-date query.
type Request struct {
	Days  int
	Hours int
	// Start is the caller-supplied UTC instant; nil means now.
	Start *time.Time
}

// ParseRequest validates raw query values. An empty string counts as absent.
func ParseRequest(days, hours, date string) (Request, error) {
	days, hours, date = strings.TrimSpace(days), strings.TrimSpace(hours), strings.TrimSpace(date)
	var req Request
	if days == "" && hours == "" {
		return req, fmt.Errorf("%w: 'days' or 'hours' is required", ErrInvalidParameters)
	}
	var err error
	if req.Days, err = parseCount("days", days, MaxDays); err != nil {
		return req, err
	}
	if req.Hours, err = parseCount("hours", hours, MaxHours); err != nil {
		return req, err
	}
	if date != "" {
		t, err := ParseUTCInstant(date)
		if err != nil {
			return req, err
		}
		req.Start = &t
	}
	return req, nil
}

func parseCount(name, v string, limit int) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: '%s' must be a non-negative integer", ErrInvalidParameters, name)
	}
	if n > limit {
		return 0, fmt.Errorf("%w: '%s' must be at most %d", ErrInvalidParameters, name, limit)
	}
	return n, nil
}

// ParseUTCInstant accepts ISO 8601 instants that end in "Z".
func ParseUTCInstant(s string) (time.Time, error) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, fmt.Errorf("%w: 'date' must be ISO 8601 in UTC with a Z suffix", ErrInvalidParameters)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: 'date' is not a valid ISO 8601 instant", ErrInvalidParameters)
}

// HolidaySource is the holiday capability the service needs.
type HolidaySource interface {
	Holidays(ctx context.Context) (schedule.HolidaySet, error)
}

// Service runs working-date queries: it fetches the holiday set once and feeds
// it to the calendar.
type Service struct {
	Holidays HolidaySource
	Location *time.Location
	Schedule schedule.Schedule
	Now      func() time.Time
}

func New(h HolidaySource, loc *time.Location, s schedule.Schedule) *Service {
	return &Service{Holidays: h, Location: loc, Schedule: s, Now: time.Now}
}

// Compute returns the resulting instant in UTC, truncated to whole seconds.
// Holiday errors are returned as-is, and the calendar is not consulted.
func (s *Service) Compute(ctx context.Context, req Request) (time.Time, error) {
	if req.Days < 0 || req.Hours < 0 || req.Days > MaxDays || req.Hours > MaxHours {
		return time.Time{}, fmt.Errorf("%w: delta out of range", ErrInvalidParameters)
	}
	start := s.now()
	if req.Start != nil {
		start = *req.Start
	}
	set, err := s.Holidays.Holidays(ctx)
	if err != nil {
		return time.Time{}, err
	}
	cal := schedule.NewCalendar(s.Location, s.Schedule, set)
	return cal.Compute(start, req.Days, req.Hours).Truncate(time.Second), nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// FormatUTC renders t as extended ISO 8601 with a Z suffix and no fraction.
func FormatUTC(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05Z") }
