package domain

// Command is a control signal delivered to the dispatcher over the command
// channel. Commands are processed in arrival order, one per wait cycle.
type Command int

const (
	// CommandFlush asks the dispatcher to send whatever is buffered now
	// instead of waiting for the batching interval.
	CommandFlush Command = iota

	// CommandClose asks for one best-effort final send attempt followed by
	// an unconditional stop.
	CommandClose

	// CommandTerminate stops the dispatcher immediately, abandoning any
	// buffered batch. Closing the command channel is equivalent.
	CommandTerminate
)

// String returns a human-readable representation of the command.
func (c Command) String() string {
	switch c {
	case CommandFlush:
		return "Flush"
	case CommandClose:
		return "Close"
	case CommandTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}
