package teleship

import (
	"github.com/fieldlabs/teleship/internal/ports"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Transmitter ships a batch of envelopes and classifies the result.
type Transmitter = ports.Transmitter

// Option configures optional behavior of the client.
type Option func(*options)

// options holds the optional configuration for a Client instance.
type options struct {
	httpClient  ports.HTTPClient
	logger      ports.Logger
	transmitter ports.Transmitter
	clock       ports.Clock
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: &noopLogger{},
		clock:  ports.SystemClock{},
	}
}

// WithHTTPClient sets a custom HTTP client for the default transmitter.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransmitter replaces the default HTTP transmitter. Useful for tests
// and for shipping over transports other than HTTP.
func WithTransmitter(transmitter Transmitter) Option {
	return func(o *options) {
		o.transmitter = transmitter
	}
}

// WithClock replaces the timer source used for the batching window and
// retry backoff. Intended for tests.
func WithClock(clock ports.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// noopLogger discards all log messages.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field) {}
func (noopLogger) Info(msg string, fields ...ports.Field)  {}
func (noopLogger) Warn(msg string, fields ...ports.Field)  {}
func (noopLogger) Error(msg string, fields ...ports.Field) {}
