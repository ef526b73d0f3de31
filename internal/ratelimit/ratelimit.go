// Package ratelimit throttles how fast a batch consumes input rows.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New allows rowsPerSecond rows on average with bursts of up to burst rows.
// A zero or negative rate disables throttling; burst is at least 1.
func New(rowsPerSecond float64, burst int) *Limiter {
	burst = max(burst, 1)
	if rowsPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, burst),
		}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rowsPerSecond), burst),
	}
}

// Wait blocks until the next row may be processed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow is non-blocking and useful for checking throttling.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured rows per second, 0 when unthrottled.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}

func (l *Limiter) Burst() int {
	return l.limiter.Burst()
}
