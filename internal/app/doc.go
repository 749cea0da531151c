// Package app contains the dispatcher core: the formal state machine, the
// retry policy, and the worker event loop that multiplexes the command
// channel, the telemetry channel, and timers.
//
// The worker is strictly sequential. It moves between four states:
//
//	Buffering  -> waiting for a command or the batching window to elapse
//	Sending    -> one transmit attempt over everything queued right now
//	BackingOff -> waiting for the retry delay or a command
//	Stopped    -> terminal; the event loop exits
//
// Every transition is driven by a named event and validated against a fixed
// table; applying an event that is not legal for the current state is a
// programming error and panics.
package app
