package domain

import "time"

// OutcomeKind classifies the result of a send attempt.
type OutcomeKind int

const (
	// OutcomeAccepted means the entire batch was delivered.
	OutcomeAccepted OutcomeKind = iota

	// OutcomeRetry means the batch (or a subset of it) should be sent again
	// after a backoff period.
	OutcomeRetry

	// OutcomeThrottled means the service asked the client to back off.
	// Carries a retry-after hint alongside the items to resend.
	OutcomeThrottled

	// OutcomeRejected means the batch was refused and must not be retried.
	OutcomeRejected
)

// String returns a human-readable representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "Accepted"
	case OutcomeRetry:
		return "Retry"
	case OutcomeThrottled:
		return "Throttled"
	case OutcomeRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Outcome is the transmitter's verdict on a batch. For OutcomeRetry and
// OutcomeThrottled, Remaining replaces the dispatcher's buffer; it may be a
// subset of what was sent when the service accepted part of the batch.
type Outcome struct {
	Kind       OutcomeKind
	Remaining  []Envelope
	RetryAfter time.Duration
}

// Accepted reports delivery of the whole batch.
func Accepted() Outcome {
	return Outcome{Kind: OutcomeAccepted}
}

// RetryWith reports a retryable failure with the items to send again.
func RetryWith(remaining []Envelope) Outcome {
	return Outcome{Kind: OutcomeRetry, Remaining: remaining}
}

// ThrottledWith reports a rate-limited response with a retry-after hint and
// the items to send again.
func ThrottledWith(retryAfter time.Duration, remaining []Envelope) Outcome {
	return Outcome{Kind: OutcomeThrottled, RetryAfter: retryAfter, Remaining: remaining}
}

// Rejected reports a permanent refusal; the batch is dropped.
func Rejected() Outcome {
	return Outcome{Kind: OutcomeRejected}
}
