package app

import "fmt"

// State is the dispatcher's current phase.
type State int

const (
	StateBuffering State = iota
	StateSending
	StateBackingOff
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateBuffering:
		return "Buffering"
	case StateSending:
		return "Sending"
	case StateBackingOff:
		return "BackingOff"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Event names a dispatcher state transition trigger.
type Event int

const (
	EventTimerExpired Event = iota
	EventFlushRequested
	EventCloseRequested
	EventTerminateRequested
	EventBatchSentContinue
	EventBatchSentStop
	EventRetryRequested
	EventRetryExhausted
)

// String returns a human-readable representation of the event.
func (e Event) String() string {
	switch e {
	case EventTimerExpired:
		return "TimerExpired"
	case EventFlushRequested:
		return "FlushRequested"
	case EventCloseRequested:
		return "CloseRequested"
	case EventTerminateRequested:
		return "TerminateRequested"
	case EventBatchSentContinue:
		return "BatchSentContinue"
	case EventBatchSentStop:
		return "BatchSentStop"
	case EventRetryRequested:
		return "RetryRequested"
	case EventRetryExhausted:
		return "RetryExhausted"
	default:
		return "Unknown"
	}
}

type transitionKey struct {
	from  State
	event Event
}

// transitions is the complete set of legal state transitions. Any
// (state, event) pair absent from this table is invalid.
var transitions = map[transitionKey]State{
	{StateBuffering, EventTimerExpired}:       StateSending,
	{StateBuffering, EventFlushRequested}:     StateSending,
	{StateBuffering, EventCloseRequested}:     StateSending,
	{StateBuffering, EventTerminateRequested}: StateStopped,

	{StateSending, EventBatchSentContinue}:  StateBuffering,
	{StateSending, EventBatchSentStop}:      StateStopped,
	{StateSending, EventRetryRequested}:     StateBackingOff,
	{StateSending, EventTerminateRequested}: StateStopped,

	{StateBackingOff, EventTimerExpired}:       StateSending,
	{StateBackingOff, EventCloseRequested}:     StateStopped,
	{StateBackingOff, EventTerminateRequested}: StateStopped,
	{StateBackingOff, EventRetryExhausted}:     StateBuffering,
}

// Machine tracks the dispatcher state and enforces the transition table.
// It also records the event that produced the current state, so the worker
// can distinguish a close-triggered Sending phase from a normal one.
type Machine struct {
	state      State
	trigger    Event
	hasTrigger bool
}

// NewMachine creates a machine in the Buffering state.
func NewMachine() *Machine {
	return &Machine{state: StateBuffering}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Trigger returns the event that caused the last transition. The second
// return is false before the first transition.
func (m *Machine) Trigger() (Event, bool) {
	return m.trigger, m.hasTrigger
}

// Transition applies an event and returns the new state. It panics if the
// event is not legal for the current state: that indicates the worker logic
// violated the transition table, which is a bug, not a runtime condition.
func (m *Machine) Transition(event Event) State {
	next, ok := transitions[transitionKey{m.state, event}]
	if !ok {
		panic(fmt.Sprintf("app: invalid transition: event %s in state %s", event, m.state))
	}
	m.state = next
	m.trigger = event
	m.hasTrigger = true
	return next
}
