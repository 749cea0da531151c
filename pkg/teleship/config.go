package teleship

import (
	"fmt"
	"time"

	"github.com/fieldlabs/teleship/internal/app"
)

// DefaultEndpointURL is the default ingestion endpoint telemetry is shipped to.
const DefaultEndpointURL = "https://dc.ingest.fieldlabs.io/v2/track"

// DefaultBufferCapacity bounds how many telemetry items may be queued ahead
// of the dispatcher before new items are dropped.
const DefaultBufferCapacity = 1024

// ShutdownTimeout is the maximum time Close waits for the final flush before
// terminating the dispatcher.
const ShutdownTimeout = 30 * time.Second

// Config holds the configuration for a telemetry client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// EndpointURL is the full URL of the track endpoint.
	EndpointURL string

	// InstrumentationKey routes telemetry to an ingestion resource. Required
	// unless a custom transmitter is provided.
	InstrumentationKey string

	// Interval is the batching window between automatic send attempts.
	Interval time.Duration

	// BufferCapacity bounds the telemetry queue. Producers never block;
	// items beyond this capacity are dropped.
	BufferCapacity int

	// MaxRetries bounds re-attempts after a retryable send failure.
	MaxRetries int

	// BackoffInitial and BackoffMax shape the exponential retry delays.
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// HTTPTimeout is the per-request timeout of the default transmitter.
	HTTPTimeout time.Duration

	// Tags are stamped on every envelope the client enqueues.
	Tags map[string]string
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, set InstrumentationKey before calling New.
func DefaultConfig() Config {
	return Config{
		EndpointURL:    DefaultEndpointURL,
		Interval:       2 * time.Second,
		BufferCapacity: DefaultBufferCapacity,
		MaxRetries:     app.DefaultMaxRetries,
		BackoffInitial: app.DefaultBackoffInitial,
		BackoffMax:     app.DefaultBackoffMax,
		HTTPTimeout:    15 * time.Second,
	}
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.EndpointURL == "" {
		c.EndpointURL = d.EndpointURL
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = d.BufferCapacity
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = d.BackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = d.BackoffMax
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint URL is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.BackoffMax < c.BackoffInitial {
		return fmt.Errorf("backoff max must not be below backoff initial")
	}
	return nil
}
