// Package teleship provides a telemetry client with a background dispatcher.
//
// Application code enqueues telemetry envelopes with Track; a dispatcher
// goroutine batches them, ships them to the ingestion endpoint, and retries
// transient failures with capped exponential backoff. Delivery is
// best-effort: rejected batches, exhausted retries and terminated shutdowns
// drop data, reported only through diagnostic logging.
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
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	httpAdapter "github.com/fieldlabs/teleship/internal/adapters/http"
	"github.com/fieldlabs/teleship/internal/app"
	"github.com/fieldlabs/teleship/internal/domain"
	"github.com/fieldlabs/teleship/internal/ports"
)

// Envelope is a single telemetry record.
type Envelope = domain.Envelope

// Outcome classifies a transmit attempt. Custom Transmitter implementations
// build one with Accepted, RetryWith, ThrottledWith or Rejected.
type Outcome = domain.Outcome

// OutcomeKind enumerates the transmit outcome classifications.
type OutcomeKind = domain.OutcomeKind

// Transmit outcome classifications.
const (
	OutcomeAccepted  = domain.OutcomeAccepted
	OutcomeRetry     = domain.OutcomeRetry
	OutcomeThrottled = domain.OutcomeThrottled
	OutcomeRejected  = domain.OutcomeRejected
)

// Outcome constructors for custom Transmitter implementations.
var (
	Accepted      = domain.Accepted
	RetryWith     = domain.RetryWith
	ThrottledWith = domain.ThrottledWith
	Rejected      = domain.Rejected
)

// Errors returned by the client lifecycle methods.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)

// commandQueueCapacity bounds pending control commands. Control traffic is
// tiny; the queue exists only so producers never block on the dispatcher.
const commandQueueCapacity = 16

// Client is a telemetry client instance. Use New() to create one, then
// Start() to launch the background dispatcher.
type Client struct {
	config Config
	logger ports.Logger
	worker *app.Worker

	items    chan domain.Envelope
	commands chan domain.Command

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a new telemetry client with the given configuration.
// The dispatcher is not running yet; call Start() to launch it.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	transmitter := o.transmitter
	if transmitter == nil {
		if cfg.InstrumentationKey == "" {
			return nil, fmt.Errorf("%w: instrumentation key is required", domain.ErrInvalidConfig)
		}
		client := o.httpClient
		if client == nil {
			client = &http.Client{Timeout: cfg.HTTPTimeout}
		}
		transmitter = httpAdapter.NewTransmitter(client, cfg.EndpointURL, o.logger)
	}

	items := make(chan domain.Envelope, cfg.BufferCapacity)
	commands := make(chan domain.Command, commandQueueCapacity)

	worker := app.NewWorker(
		app.WorkerConfig{
			Interval:       cfg.Interval,
			MaxRetries:     cfg.MaxRetries,
			BackoffInitial: cfg.BackoffInitial,
			BackoffMax:     cfg.BackoffMax,
		},
		transmitter,
		items,
		commands,
		o.clock,
		o.logger,
	)

	return &Client{
		config:   cfg,
		logger:   o.logger,
		worker:   worker,
		items:    items,
		commands: commands,
	}, nil
}

// Start launches the background dispatcher.
// Returns immediately after starting the dispatcher goroutine.
// The provided context bounds the dispatcher's lifetime: cancellation is
// equivalent to Terminate.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return domain.ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.started = true

	done := c.done
	go func() {
		c.worker.Run(runCtx)
		close(done)
	}()

	return nil
}

// Track enqueues a telemetry envelope. It never blocks: when the buffer is
// full the envelope is dropped and the drop is logged. Safe to call from any
// goroutine, before Start and after Close (items enqueued outside the
// dispatcher's lifetime are delivered on the next cycle or dropped at
// shutdown).
func (c *Client) Track(envelope Envelope) {
	if envelope.Time.IsZero() {
		envelope.Time = time.Now().UTC()
	}
	if envelope.IKey == "" {
		envelope.IKey = c.config.InstrumentationKey
	}
	if len(c.config.Tags) > 0 {
		tags := make(map[string]string, len(c.config.Tags)+len(envelope.Tags))
		for k, v := range c.config.Tags {
			tags[k] = v
		}
		for k, v := range envelope.Tags {
			tags[k] = v
		}
		envelope.Tags = tags
	}

	select {
	case c.items <- envelope:
	default:
		c.logger.Warn("telemetry buffer full, dropping item",
			ports.String("name", envelope.Name))
	}
}

// TrackTrace enqueues a plain text message as a trace envelope.
func (c *Client) TrackTrace(message string) {
	c.Track(domain.NewTraceEnvelope(message, time.Now().UTC()))
}

// Flush asks the dispatcher to send whatever is buffered now instead of
// waiting for the batching window. Best-effort and non-blocking; during an
// active backoff a flush is ignored.
func (c *Client) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.stopped {
		return domain.ErrNotRunning
	}

	select {
	case c.commands <- domain.CommandFlush:
	default:
		// Queue full: a send is already pending, nothing to do.
	}
	return nil
}

// Close shuts the dispatcher down gracefully: one best-effort final send
// attempt, then stop. Blocks until the dispatcher exits or ShutdownTimeout
// elapses, in which case the dispatcher is terminated and
// ErrShutdownTimeout is returned.
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return domain.ErrNotRunning
	}
	c.stopped = true
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	// Queue the close command, then close the channel: the dispatcher
	// performs its final send on the command, and the closed channel
	// guarantees termination even if the command could not be queued.
	select {
	case c.commands <- domain.CommandClose:
	default:
	}
	close(c.commands)

	select {
	case <-done:
		return nil
	case <-time.After(ShutdownTimeout):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return domain.ErrShutdownTimeout
}

// Terminate stops the dispatcher immediately, abandoning any buffered
// telemetry. Blocks until the dispatcher exits.
func (c *Client) Terminate() error {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return domain.ErrNotRunning
	}
	c.stopped = true
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(time.Second):
		return domain.ErrShutdownTimeout
	}
}

// Done returns a channel closed when the dispatcher has stopped.
// Returns nil before Start.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
