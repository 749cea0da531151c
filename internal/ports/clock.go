package ports

import "time"

// Clock produces one-shot wakeup signals. It abstracts time so the
// dispatcher's batching window and backoff waits are deterministic in tests.
type Clock interface {
	// After returns a channel that delivers a single value once the given
	// duration has elapsed.
	After(d time.Duration) <-chan time.Time
}

// SystemClock implements Clock with the runtime timer.
type SystemClock struct{}

// After returns a channel that fires after d.
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
