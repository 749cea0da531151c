package app

import (
	"math/rand"
	"time"
)

// Default retry configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
	DefaultMaxRetries     = 3
)

// retryPolicy yields successive backoff delays for one send cycle.
// Each Next() consumes one permitted attempt; when no attempts remain the
// cycle is exhausted and the buffered batch is dropped.
type retryPolicy struct {
	remaining int
	current   time.Duration
	max       time.Duration
}

// exponentialRetry returns a policy yielding a bounded number of delays,
// doubling from initial up to max.
func exponentialRetry(initial, max time.Duration, attempts int) *retryPolicy {
	return &retryPolicy{
		remaining: attempts,
		current:   initial,
		max:       max,
	}
}

// onceRetry returns a policy that is exhausted on the first call. It makes
// the close path's single-attempt guarantee explicit even though the backoff
// state is never entered on that path.
func onceRetry() *retryPolicy {
	return &retryPolicy{}
}

// Next returns the next backoff delay, or false when retries are exhausted.
func (r *retryPolicy) Next() (time.Duration, bool) {
	if r.remaining <= 0 {
		return 0, false
	}
	r.remaining--

	// Jitter: ±20%
	jitter := float64(r.current) * 0.2 * (rand.Float64()*2 - 1)
	delay := time.Duration(float64(r.current) + jitter)

	r.current *= 2
	if r.current > r.max {
		r.current = r.max
	}
	return delay, true
}
