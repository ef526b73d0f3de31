package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		rowsPerSecond float64
		burst         int
		wantLimit     float64
		wantBurst     int
	}{
		{name: "unlimited_zero", rowsPerSecond: 0, burst: 1, wantLimit: 0, wantBurst: 1},
		{name: "unlimited_negative", rowsPerSecond: -1, burst: 0, wantLimit: 0, wantBurst: 1},
		{name: "limited_one_per_second", rowsPerSecond: 1, burst: 1, wantLimit: 1, wantBurst: 1},
		{name: "limited_fractional", rowsPerSecond: 0.5, burst: 1, wantLimit: 0.5, wantBurst: 1},
		{name: "burst", rowsPerSecond: 100, burst: 20, wantLimit: 100, wantBurst: 20},
		{name: "burst_floor", rowsPerSecond: 100, burst: -3, wantLimit: 100, wantBurst: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.rowsPerSecond, tt.burst)

			if got := limiter.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %f, want %f", got, tt.wantLimit)
			}
			if got := limiter.Burst(); got != tt.wantBurst {
				t.Errorf("Burst() = %d, want %d", got, tt.wantBurst)
			}
		})
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("unlimited_allows_all", func(t *testing.T) {
		limiter := New(0, 1)

		for i := range 10 {
			if !limiter.Allow() {
				t.Errorf("unlimited limiter denied row %d", i)
			}
		}
	})

	t.Run("limited_respects_rate", func(t *testing.T) {
		limiter := New(1, 1)

		if !limiter.Allow() {
			t.Error("first row should be allowed")
		}
		if limiter.Allow() {
			t.Error("second immediate row should be denied")
		}
	})

	t.Run("burst_allows_several", func(t *testing.T) {
		limiter := New(1, 3)

		for i := range 3 {
			if !limiter.Allow() {
				t.Errorf("row %d within burst denied", i)
			}
		}
		if limiter.Allow() {
			t.Error("row past burst should be denied")
		}
	})
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("unlimited_no_wait", func(t *testing.T) {
		limiter := New(0, 1)

		start := time.Now()
		for range 100 {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("Wait() failed: %v", err)
			}
		}
		if d := time.Since(start); d > 50*time.Millisecond {
			t.Errorf("unlimited limiter took %v", d)
		}
	})

	t.Run("limited_waits", func(t *testing.T) {
		limiter := New(10, 1)
		ctx := context.Background()

		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("first Wait() failed: %v", err)
		}

		start := time.Now()
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("second Wait() failed: %v", err)
		}
		if d := time.Since(start); d < 80*time.Millisecond || d > 150*time.Millisecond {
			t.Errorf("second row waited %v, expected ~100ms", d)
		}
	})

	t.Run("context_cancellation", func(t *testing.T) {
		limiter := New(1, 1)
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("first Wait() failed: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Wait() error = %v, want %v", err, context.Canceled)
		}
	})
}
