package app

import (
	"testing"
	"time"
)

func TestExponentialRetry_YieldsBoundedIncreasingDelays(t *testing.T) {
	r := exponentialRetry(100*time.Millisecond, time.Second, 3)

	expected := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	for i, base := range expected {
		delay, ok := r.Next()
		if !ok {
			t.Fatalf("Next() exhausted at attempt %d, want %d attempts", i, len(expected))
		}
		// Delays carry ±20% jitter around the doubling base.
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)
		if delay < lo || delay > hi {
			t.Errorf("attempt %d: delay = %v, want within [%v, %v]", i, delay, lo, hi)
		}
	}

	if _, ok := r.Next(); ok {
		t.Error("Next() should be exhausted after the configured attempts")
	}
	if _, ok := r.Next(); ok {
		t.Error("exhausted policy must stay exhausted")
	}
}

func TestExponentialRetry_CapsAtMax(t *testing.T) {
	r := exponentialRetry(time.Second, 2*time.Second, 5)

	var last time.Duration
	for i := 0; i < 5; i++ {
		delay, ok := r.Next()
		if !ok {
			t.Fatalf("Next() exhausted at attempt %d, want 5 attempts", i)
		}
		last = delay
	}

	// With a 2s cap and ±20% jitter no delay exceeds 2.4s.
	if last > 2400*time.Millisecond {
		t.Errorf("capped delay = %v, want <= 2.4s", last)
	}
}

func TestOnceRetry_ExhaustedImmediately(t *testing.T) {
	r := onceRetry()

	if _, ok := r.Next(); ok {
		t.Error("onceRetry() should be exhausted on the first call")
	}
}
