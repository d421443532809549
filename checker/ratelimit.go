package checker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces probe starts at a fixed interval using a token bucket with
// a burst of one. It does not adapt to observed latency.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewLimiter returns a Limiter that admits one probe per interval. A
// non-positive interval disables limiting.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next probe may start or the context is cancelled.
// It is safe to call Wait from multiple goroutines concurrently.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// RequestsPerSecond returns the sustained rate, or 0 when unlimited.
func (l *Limiter) RequestsPerSecond() float64 {
	if l.interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(l.interval)
}
