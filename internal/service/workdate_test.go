package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"workdays/internal/holidays"
	"workdays/internal/schedule"
)

type stubHolidays struct {
	set   schedule.HolidaySet
	err   error
	calls int
}

func (s *stubHolidays) Holidays(ctx context.Context) (schedule.HolidaySet, error) {
	s.calls++
	return s.set, s.err
}

func newService(t *testing.T, h HolidaySource) *Service {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		t.Fatal(err)
	}
	return New(h, loc, schedule.DefaultSchedule())
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("1", "", "2024-01-13T19:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if req.Days != 1 || req.Hours != 0 || req.Start == nil || !req.Start.Equal(time.Date(2024, 1, 13, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected request %+v", req)
	}
	req, err = ParseRequest("", "3", "")
	if err != nil || req.Hours != 3 || req.Start != nil {
		t.Fatalf("unexpected request %+v %v", req, err)
	}
	if req, err := ParseRequest("0", "", ""); err != nil || req.Days != 0 {
		t.Fatalf("zero days should be accepted: %+v %v", req, err)
	}
	if _, err := ParseRequest("", "", "2024-01-13T19:00:00.250Z"); err == nil {
		t.Fatal("missing days and hours must fail")
	}
}

func TestParseRequestRejects(t *testing.T) {
	cases := []struct{ days, hours, date string }{
		{"", "", ""},
		{"-1", "", ""},
		{"", "-2", ""},
		{"abc", "", ""},
		{"1.5", "", ""},
		{"1", "", "2024-01-13T19:00:00"},
		{"1", "", "2024-01-13T19:00:00-05:00"},
		{"1", "", "2024-13-40T19:00:00Z"},
		{"1", "", "yesterdayZ"},
		{"", "4611686018427387904", ""},
		{"", "1000001", ""},
		{"100001", "", ""},
		{"99999999999999999999", "", ""},
	}
	for _, tc := range cases {
		if _, err := ParseRequest(tc.days, tc.hours, tc.date); !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("%+v: expected ErrInvalidParameters, got %v", tc, err)
		}
	}
}

func TestParseUTCInstantFormats(t *testing.T) {
	for _, s := range []string{"2024-01-13T19:00:00Z", "2024-01-13T19:00:00.123Z", "2024-01-13T19:00Z"} {
		got, err := ParseUTCInstant(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if got.Hour() != 19 || got.Location() != time.UTC {
			t.Fatalf("%s parsed as %s", s, got)
		}
	}
}

func TestComputeCallsHolidaysOnce(t *testing.T) {
	h := &stubHolidays{}
	svc := newService(t, h)
	start := time.Date(2024, 1, 13, 19, 0, 0, 0, time.UTC)
	got, err := svc.Compute(context.Background(), Request{Days: 1, Start: &start})
	if err != nil {
		t.Fatal(err)
	}
	if FormatUTC(got) != "2024-01-15T22:00:00Z" {
		t.Fatalf("got %s", FormatUTC(got))
	}
	if h.calls != 1 {
		t.Fatalf("expected one holiday lookup, got %d", h.calls)
	}
}

func TestComputeUsesHolidays(t *testing.T) {
	set, err := schedule.ParseHolidaySet([]string{"2024-01-15"})
	if err != nil {
		t.Fatal(err)
	}
	svc := newService(t, &stubHolidays{set: set})
	start := time.Date(2024, 1, 13, 19, 0, 0, 0, time.UTC)
	got, err := svc.Compute(context.Background(), Request{Days: 1, Start: &start})
	if err != nil {
		t.Fatal(err)
	}
	if FormatUTC(got) != "2024-01-16T22:00:00Z" {
		t.Fatalf("got %s", FormatUTC(got))
	}
}

func TestComputeDefaultsToNow(t *testing.T) {
	svc := newService(t, &stubHolidays{})
	// Tuesday 2024-01-16 10:00:37 Bogota
	svc.Now = func() time.Time { return time.Date(2024, 1, 16, 15, 0, 37, 0, time.UTC) }
	got, err := svc.Compute(context.Background(), Request{Hours: 1})
	if err != nil {
		t.Fatal(err)
	}
	if FormatUTC(got) != "2024-01-16T16:00:00Z" {
		t.Fatalf("got %s", FormatUTC(got))
	}
}

func TestComputePropagatesHolidayFailure(t *testing.T) {
	h := &stubHolidays{err: holidays.ErrUnavailable}
	svc := newService(t, h)
	if _, err := svc.Compute(context.Background(), Request{Days: 1}); !errors.Is(err, holidays.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseRequestBounds(t *testing.T) {
	req, err := ParseRequest("100000", "1000000", "")
	if err != nil {
		t.Fatal(err)
	}
	if req.Days != MaxDays || req.Hours != MaxHours {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestComputeRejectsOversizedDelta(t *testing.T) {
	h := &stubHolidays{}
	svc := newService(t, h)
	if _, err := svc.Compute(context.Background(), Request{Hours: MaxHours + 1}); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	if h.calls != 0 {
		t.Fatal("holidays should not be fetched for a rejected request")
	}
}
