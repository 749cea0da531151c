package domain

import "errors"

// Domain errors represent error conditions in the teleship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running client.
	ErrAlreadyRunning = errors.New("teleship: already running")

	// ErrNotRunning is returned when a control operation is issued against a
	// client that has not been started or has already stopped.
	ErrNotRunning = errors.New("teleship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out and the
	// dispatcher had to be terminated.
	ErrShutdownTimeout = errors.New("teleship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("teleship: invalid configuration")
)
