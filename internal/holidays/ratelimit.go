package holidays

import "golang.org/x/time/rate"

// newLimiter paces calls to the holiday feed; non-positive values use 2 rps, burst 5.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
