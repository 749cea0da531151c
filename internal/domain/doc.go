// Package domain contains the core domain entities and value objects for
// teleship.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only the value types the dispatcher core operates on.
//
// # Entities
//
//   - [Envelope]: A single telemetry record with name, timestamp and payload
//   - [Command]: A control signal for the dispatcher (Flush, Close, Terminate)
//   - [Outcome]: The result of handing a batch to a transmitter
package domain
