package schedule

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	c := testCalendar(t, "2024-01-08")
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"saturday collapses to friday end", at(c, 2024, 1, 13, 14, 0), at(c, 2024, 1, 12, 17, 0)},
		{"sunday collapses to friday end", at(c, 2024, 1, 14, 9, 0), at(c, 2024, 1, 12, 17, 0)},
		{"after hours", at(c, 2024, 1, 16, 19, 45), at(c, 2024, 1, 16, 17, 0)},
		{"one minute after end", at(c, 2024, 1, 16, 17, 1), at(c, 2024, 1, 16, 17, 0)},
		{"inside lunch", at(c, 2024, 1, 16, 12, 30), at(c, 2024, 1, 16, 12, 0)},
		{"lunch last minute", at(c, 2024, 1, 16, 12, 59), at(c, 2024, 1, 16, 12, 0)},
		{"before hours goes to previous working day", at(c, 2024, 1, 16, 7, 59), at(c, 2024, 1, 15, 17, 0)},
		{"before hours on monday skips weekend", at(c, 2024, 1, 15, 6, 0), at(c, 2024, 1, 12, 17, 0)},
		{"before hours after holiday monday", at(c, 2024, 1, 9, 7, 0), at(c, 2024, 1, 5, 17, 0)},
		{"holiday collapses past weekend", at(c, 2024, 1, 8, 10, 0), at(c, 2024, 1, 5, 17, 0)},
		{"working instant kept", at(c, 2024, 1, 16, 10, 17), at(c, 2024, 1, 16, 10, 17)},
		{"lunch start kept", at(c, 2024, 1, 16, 12, 0), at(c, 2024, 1, 16, 12, 0)},
		{"work end kept", at(c, 2024, 1, 16, 17, 0), at(c, 2024, 1, 16, 17, 0)},
	}
	for _, tc := range cases {
		got := c.Normalize(tc.in)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeTruncatesSeconds(t *testing.T) {
	c := testCalendar(t)
	in := at(c, 2024, 1, 16, 10, 17).Add(42*time.Second + 123*time.Millisecond)
	got := c.Normalize(in)
	if got.Second() != 0 || got.Nanosecond() != 0 || got.Minute() != 17 {
		t.Fatalf("expected seconds truncated, got %s", got)
	}
}

func TestNormalizeAcceptsUTC(t *testing.T) {
	c := testCalendar(t)
	// Saturday 2024-01-13 14:00 in Bogota.
	got := c.Normalize(time.Date(2024, 1, 13, 19, 0, 0, 0, time.UTC))
	if got.Location() != c.Location {
		t.Fatalf("expected business timezone, got %s", got.Location())
	}
	if want := time.Date(2024, 1, 12, 22, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %s want %s", got.UTC(), want)
	}
}

func TestNormalizeProperties(t *testing.T) {
	c := testCalendar(t, "2024-03-25", "2024-03-28", "2024-03-29")
	start := at(c, 2024, 3, 20, 0, 0)
	end := at(c, 2024, 4, 3, 0, 0)
	for ts := start; ts.Before(end); ts = ts.Add(7*time.Minute + 11*time.Second) {
		n := c.Normalize(ts)
		if again := c.Normalize(n); !again.Equal(n) {
			t.Fatalf("not idempotent at %s: %s then %s", ts, n, again)
		}
		if n.After(ts) {
			t.Fatalf("normalized %s moved forward to %s", ts, n)
		}
		if p := c.Classify(n); p != Morning && p != Afternoon {
			t.Fatalf("normalized %s landed on %s", ts, p)
		}
		if n.Second() != 0 || n.Nanosecond() != 0 {
			t.Fatalf("seconds not truncated: %s", n)
		}
		if c.IsWorkingInstant(ts) {
			if !n.Equal(ClockOf(ts).On(ts)) {
				t.Fatalf("working instant %s changed to %s", ts, n)
			}
		}
		if !c.IsWorkingDay(ts) {
			prev := c.PreviousWorkingDay(ts)
			if !n.Equal(c.Schedule.WorkEnd.On(prev)) {
				t.Fatalf("non-working %s should collapse to %s, got %s", ts, c.Schedule.WorkEnd.On(prev), n)
			}
		}
	}
}
