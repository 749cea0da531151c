package domain

import "time"

// Envelope is a single telemetry record. The dispatcher treats envelopes as
// opaque immutable values; only transmitter adapters look inside.
type Envelope struct {
	// Name identifies the telemetry item type (e.g. "Message", "Event").
	Name string `json:"name"`

	// Time is the instant the item was produced.
	Time time.Time `json:"time"`

	// IKey is the instrumentation key routing the item to an ingestion
	// resource. Filled in by the client before enqueueing.
	IKey string `json:"iKey,omitempty"`

	// Tags carries context key-value pairs (host, role, session).
	Tags map[string]string `json:"tags,omitempty"`

	// Data is the item payload. Marshaled as-is by transmitter adapters.
	Data interface{} `json:"data,omitempty"`
}

// NewTraceEnvelope builds an envelope carrying a plain text message.
// Used by the forwarder CLI for line-oriented input.
func NewTraceEnvelope(message string, at time.Time) Envelope {
	return Envelope{
		Name: "Message",
		Time: at,
		Data: map[string]interface{}{
			"message": message,
		},
	}
}
