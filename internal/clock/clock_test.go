package clock

import (
	"testing"
	"time"
)

func TestSetNowForTest(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	current := start
	restore := SetNowForTest(func() time.Time { return current })

	if got := Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	current = start.Add(1500 * time.Millisecond)
	if got := Since(start); got != 1500*time.Millisecond {
		t.Errorf("Since() = %v, want 1.5s", got)
	}

	restore()
	if got := Now(); got.Equal(current) {
		t.Errorf("Now() still returns the test clock after restore")
	}
}
