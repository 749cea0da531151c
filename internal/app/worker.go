package app

import (
	"context"
	"time"

	"github.com/fieldlabs/teleship/internal/domain"
	"github.com/fieldlabs/teleship/internal/ports"
)

// WorkerConfig contains configuration for the dispatcher loop.
type WorkerConfig struct {
	// Interval is the batching window: how long the worker buffers before
	// attempting a send on its own.
	Interval time.Duration

	// MaxRetries bounds the number of re-attempts after a retryable failure.
	MaxRetries int

	// BackoffInitial and BackoffMax shape the exponential retry delays.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// setDefaults fills zero values with defaults.
func (c *WorkerConfig) setDefaults() {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = DefaultBackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultBackoffMax
	}
}

// Worker is the background dispatcher. It owns the state machine, the item
// buffer and the retry policy, and reacts to the command and telemetry
// channels. Producers write to the channels and never block on the worker;
// the worker drains telemetry non-blocking and only suspends inside a
// combined wait on commands and a timer.
type Worker struct {
	config      WorkerConfig
	transmitter ports.Transmitter
	items       <-chan domain.Envelope
	commands    <-chan domain.Command
	clock       ports.Clock
	logger      ports.Logger

	machine *Machine
	buffer  []domain.Envelope
	retry   *retryPolicy
}

// NewWorker creates a dispatcher reading from the given channels.
func NewWorker(
	config WorkerConfig,
	transmitter ports.Transmitter,
	items <-chan domain.Envelope,
	commands <-chan domain.Command,
	clock ports.Clock,
	logger ports.Logger,
) *Worker {
	config.setDefaults()
	return &Worker{
		config:      config,
		transmitter: transmitter,
		items:       items,
		commands:    commands,
		clock:       clock,
		logger:      logger,
	}
}

// Run drives the state machine until it reaches Stopped. Context
// cancellation is honored at every wait and is equivalent to a Terminate
// command. Run never returns an error: send failures are retried or dropped
// per the dispatch policy, and shutdown is always deterministic.
func (w *Worker) Run(ctx context.Context) {
	w.machine = NewMachine()
	w.buffer = w.buffer[:0]
	w.retry = exponentialRetry(w.config.BackoffInitial, w.config.BackoffMax, w.config.MaxRetries)

	for w.machine.State() != StateStopped {
		switch w.machine.State() {
		case StateBuffering:
			w.handleBuffering(ctx)
		case StateSending:
			if trigger, ok := w.machine.Trigger(); ok && trigger == EventCloseRequested {
				w.handleSendingOnceAndStop(ctx)
			} else {
				w.handleSendingWithRetry(ctx)
			}
		case StateBackingOff:
			w.handleBackingOff(ctx)
		}
	}
	w.logger.Debug("dispatcher stopped")
}

// handleBuffering clears the buffer, installs a fresh retry budget for the
// next send cycle and waits for a command or the batching window. Telemetry
// items are not drained here; they accumulate on the channel until the next
// Sending phase.
func (w *Worker) handleBuffering(ctx context.Context) {
	if trigger, ok := w.machine.Trigger(); ok {
		w.logger.Debug("buffering", ports.String("trigger", trigger.String()))
	}
	w.buffer = w.buffer[:0]
	w.retry = exponentialRetry(w.config.BackoffInitial, w.config.BackoffMax, w.config.MaxRetries)
	timeout := w.clock.After(w.config.Interval)

	select {
	case <-ctx.Done():
		w.machine.Transition(EventTerminateRequested)
	case cmd, ok := <-w.commands:
		if !ok {
			w.logger.Error("command channel closed")
			w.machine.Transition(EventTerminateRequested)
			return
		}
		w.logger.Debug("command received", ports.String("command", cmd.String()))
		switch cmd {
		case domain.CommandFlush:
			w.machine.Transition(EventFlushRequested)
		case domain.CommandClose:
			w.machine.Transition(EventCloseRequested)
		default:
			w.machine.Transition(EventTerminateRequested)
		}
	case <-timeout:
		w.logger.Debug("batching window expired")
		w.machine.Transition(EventTimerExpired)
	}
}

// handleSendingWithRetry performs one transmit attempt over everything
// queued. The retry budget installed when buffering began persists across
// re-entries from BackingOff, so a persistently failing batch exhausts it
// and is dropped.
func (w *Worker) handleSendingWithRetry(ctx context.Context) {
	w.machine.Transition(w.send(ctx))
}

// handleSendingOnceAndStop performs the close path: one best-effort send
// attempt whose outcome does not matter for control flow, then stop. No
// retry happens during shutdown, and no second attempt is ever made.
func (w *Worker) handleSendingOnceAndStop(ctx context.Context) {
	w.retry = onceRetry()
	w.send(ctx)
	w.machine.Transition(EventTerminateRequested)
}

// send drains the telemetry channel into the buffer and performs exactly one
// transmit attempt if the buffer is non-empty. It returns the event the
// outcome maps to; the caller decides whether to apply it.
func (w *Worker) send(ctx context.Context) Event {
	w.drainItems()

	if len(w.buffer) == 0 {
		w.logger.Debug("nothing to send")
		return EventBatchSentContinue
	}

	w.logger.Debug("sending batch", ports.Int("items", len(w.buffer)))

	outcome, err := w.transmitter.Transmit(ctx, w.buffer)
	if err != nil {
		// Transport failure: retry the unmodified batch.
		w.logger.Debug("send failed", ports.Err(err), ports.Int("items", len(w.buffer)))
		return EventRetryRequested
	}

	switch outcome.Kind {
	case domain.OutcomeAccepted:
		w.logger.Debug("batch accepted", ports.Int("items", len(w.buffer)))
		w.buffer = w.buffer[:0]
		return EventBatchSentContinue
	case domain.OutcomeRetry:
		w.logger.Debug("batch needs retry", ports.Int("items", len(outcome.Remaining)))
		w.buffer = append(w.buffer[:0], outcome.Remaining...)
		return EventRetryRequested
	case domain.OutcomeThrottled:
		// TODO honor outcome.RetryAfter instead of the generic backoff.
		w.logger.Debug("batch throttled",
			ports.Duration("retry_after", outcome.RetryAfter),
			ports.Int("items", len(outcome.Remaining)))
		w.buffer = append(w.buffer[:0], outcome.Remaining...)
		return EventRetryRequested
	default:
		w.logger.Warn("batch rejected, dropping items", ports.Int("items", len(w.buffer)))
		w.buffer = w.buffer[:0]
		return EventBatchSentContinue
	}
}

// drainItems moves everything currently queued on the telemetry channel into
// the buffer without waiting for more.
func (w *Worker) drainItems() {
	for {
		select {
		case item, ok := <-w.items:
			if !ok {
				return
			}
			w.buffer = append(w.buffer, item)
		default:
			return
		}
	}
}

// handleBackingOff waits out the next retry delay, still honoring commands.
// Flush is a no-op here: the batch will be re-sent when the delay elapses.
// Close stops without another attempt; the buffered batch is abandoned.
func (w *Worker) handleBackingOff(ctx context.Context) {
	delay, ok := w.retry.Next()
	if !ok {
		w.logger.Warn("retries exhausted, dropping items", ports.Int("items", len(w.buffer)))
		w.machine.Transition(EventRetryExhausted)
		return
	}

	w.logger.Debug("backing off", ports.Duration("delay", delay))
	timeout := w.clock.After(delay)

	for {
		select {
		case <-ctx.Done():
			w.machine.Transition(EventTerminateRequested)
			return
		case cmd, ok := <-w.commands:
			if !ok {
				w.logger.Error("command channel closed")
				w.machine.Transition(EventTerminateRequested)
				return
			}
			w.logger.Debug("command received", ports.String("command", cmd.String()))
			switch cmd {
			case domain.CommandFlush:
				continue
			case domain.CommandClose:
				w.machine.Transition(EventCloseRequested)
				return
			default:
				w.machine.Transition(EventTerminateRequested)
				return
			}
		case <-timeout:
			w.logger.Debug("retry delay expired")
			w.machine.Transition(EventTimerExpired)
			return
		}
	}
}
