package holidays

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestSource(url string) *HTTPSource {
	return NewHTTPSource(url, HTTPOptions{MaxAttempts: 3, BaseBackoff: 10 * time.Millisecond, RPS: 100, Burst: 10})
}

func TestFetchDecodesDates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing accept header")
		}
		_, _ = w.Write([]byte(`["2025-01-01","2025-01-06"]`))
	}))
	defer ts.Close()

	got, err := newTestSource(ts.URL).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != "2025-01-06" {
		t.Fatalf("unexpected dates %v", got)
	}
}

func TestFetchRetries429(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	if _, err := newTestSource(ts.URL).Fetch(context.Background()); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if attempts.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestSource(ts.URL).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if _, err := newTestSource(ts.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Fatalf("4xx should not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetchRejectsBadPayload(t *testing.T) {
	for _, body := range []string{`{"dates":[]}`, `["2025-01-01", 20250106]`, `not json`} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := newTestSource(ts.URL).Fetch(context.Background())
		ts.Close()
		if !errors.Is(err, ErrBadPayload) {
			t.Fatalf("%s: expected ErrBadPayload, got %v", body, err)
		}
	}
}

func TestFetchHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	src := NewHTTPSource(ts.URL, HTTPOptions{MaxAttempts: 5, BaseBackoff: time.Second, RPS: 100, Burst: 10})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := src.Fetch(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	if err := os.WriteFile(path, []byte(`["2025-12-25"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil || len(got) != 1 || got[0] != "2025-12-25" {
		t.Fatalf("unexpected result %v %v", got, err)
	}
	if _, err := (FileSource{Path: path + ".missing"}).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRetryAfterIsCapped(t *testing.T) {
	def := 500 * time.Millisecond
	cases := []struct {
		header string
		want   time.Duration
	}{
		{"", def},
		{"garbage", def},
		{"2", 2 * time.Second},
		{"86400", maxRetryWait},
		{time.Now().Add(48 * time.Hour).UTC().Format(http.TimeFormat), maxRetryWait},
	}
	for _, tc := range cases {
		if got := retryAfter(tc.header, def); got != tc.want {
			t.Fatalf("Retry-After %q: got %s want %s", tc.header, got, tc.want)
		}
	}
}
