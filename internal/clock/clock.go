// Package clock is the time source for batch durations.
package clock

import "time"

var nowFunc = time.Now

func Now() time.Time {
	return nowFunc()
}

// Since is time.Since against the configured clock.
func Since(start time.Time) time.Duration {
	return nowFunc().Sub(start)
}

// SetNowForTest overrides the clock source and returns a restore function.
func SetNowForTest(fn func() time.Time) func() {
	previous := nowFunc
	nowFunc = fn
	return func() {
		nowFunc = previous
	}
}
