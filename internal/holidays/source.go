package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"workdays/internal/metrics"
)

var (
	// ErrUnavailable means no holiday list could be obtained.
	ErrUnavailable = errors.New("holiday list unavailable")
	// ErrBadPayload means the source answered with something other than a JSON array of dates.
	ErrBadPayload = errors.New("holiday payload is not an array of dates")
)

// Source fetches the raw holiday list (ISO dates).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// HTTPOptions tunes HTTPSource. Zero values fall back to defaults.
type HTTPOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	RPS         float64
	Burst       int
}

// HTTPSource reads the holiday list from a URL serving a JSON array of dates.
type HTTPSource struct {
	url         string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

func NewHTTPSource(url string, opts HTTPOptions) *HTTPSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	return &HTTPSource{
		url:         url,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		limiter:     newLimiter(opts.RPS, opts.Burst),
		maxAttempts: opts.MaxAttempts,
		baseBackoff: opts.BaseBackoff,
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("holidays status %d", resp.StatusCode)
	}
	return decodeDates(resp.Body)
}

func (s *HTTPSource) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := s.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncFetchRetry(s.Name())
		}
		resp, err := s.httpClient.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode != http.StatusTooManyRequests && (resp.StatusCode < 500 || resp.StatusCode > 599) {
				return resp, nil
			}
			lastErr = fmt.Errorf("holidays status %d", resp.StatusCode)
			wait := retryAfter(resp.Header.Get("Retry-After"), backoff)
			_ = resp.Body.Close()
			if attempt == s.maxAttempts {
				break
			}
			if err := sleep(ctx, jitter(wait)); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}
		lastErr = err
		if attempt == s.maxAttempts {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", s.maxAttempts, lastErr)
}

// maxRetryWait caps a server-requested Retry-After delay.
const maxRetryWait = 30 * time.Second

func retryAfter(header string, def time.Duration) time.Duration {
	wait := def
	if secs, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			wait = d
		}
	}
	if wait > maxRetryWait {
		return maxRetryWait
	}
	return wait
}

// jitter spreads wait by +/-20%.
func jitter(wait time.Duration) time.Duration {
	j := time.Duration(float64(wait) * 0.2)
	if j <= 0 {
		return wait
	}
	return wait - j + time.Duration(time.Now().UnixNano()%int64(2*j))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FileSource reads the same payload as HTTPSource from a local file.
type FileSource struct{ Path string }

func (f FileSource) Name() string { return "file" }

func (f FileSource) Fetch(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return decodeDates(fh)
}

func decodeDates(r io.Reader) ([]string, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, ErrBadPayload
	}
	out := make([]string, 0, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T", ErrBadPayload, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}
