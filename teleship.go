// Package teleship provides a telemetry client with a background dispatcher.
// It re-exports the client API so applications can depend on the module path
// directly.
//
// Example usage:
//
//	cfg := teleship.DefaultConfig()
//	cfg.InstrumentationKey = "your-ikey"
//	client, err := teleship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	client.TrackTrace("hello")
//	defer client.Close()
package teleship

import (
	"github.com/fieldlabs/teleship/pkg/teleship"
)

// Config holds the configuration for the telemetry client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = teleship.Config

// Client is a telemetry client instance.
type Client = teleship.Client

// Envelope is a single telemetry record.
type Envelope = teleship.Envelope

// Option customizes a Client at construction time.
type Option = teleship.Option

// Transmitter ships a batch of envelopes and classifies the result.
type Transmitter = teleship.Transmitter

// Outcome classifies a transmit attempt.
type Outcome = teleship.Outcome

// Errors returned by the client lifecycle methods.
var (
	ErrAlreadyRunning  = teleship.ErrAlreadyRunning
	ErrNotRunning      = teleship.ErrNotRunning
	ErrShutdownTimeout = teleship.ErrShutdownTimeout
	ErrInvalidConfig   = teleship.ErrInvalidConfig
)

// New creates a new telemetry client with the given configuration.
// The dispatcher is not running yet; call Start() to launch it.
func New(cfg Config, opts ...Option) (*Client, error) {
	return teleship.New(cfg, opts...)
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set InstrumentationKey before calling New.
func DefaultConfig() Config {
	return teleship.DefaultConfig()
}

// WithLogger supplies a diagnostic logger for the dispatcher.
var WithLogger = teleship.WithLogger

// WithHTTPClient supplies a custom HTTP client for the default transmitter.
var WithHTTPClient = teleship.WithHTTPClient

// WithTransmitter replaces the default HTTP transmitter entirely.
var WithTransmitter = teleship.WithTransmitter

// DefaultEndpointURL is the default ingestion endpoint telemetry is shipped to.
const DefaultEndpointURL = teleship.DefaultEndpointURL
