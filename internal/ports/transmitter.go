package ports

import (
	"context"

	"github.com/fieldlabs/teleship/internal/domain"
)

// Transmitter ships telemetry batches to an ingestion endpoint.
// Implementations handle serialization, transport and authentication.
type Transmitter interface {
	// Transmit attempts to deliver the batch and classifies the result.
	// A non-nil error means the attempt failed at the transport level and
	// the caller should retry the unmodified batch. Application-level
	// rejections and partial acceptance are reported through the Outcome,
	// not the error.
	Transmit(ctx context.Context, batch []domain.Envelope) (domain.Outcome, error)
}
