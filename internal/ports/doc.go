// Package ports defines the interfaces (ports) that connect the dispatcher
// core to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the dispatcher needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Transmitter]: Ships a batch of envelopes and reports the outcome
//   - [Clock]: Produces one-shot wakeup signals for batching and backoff
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The dispatcher core (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (HTTP, zerolog, etc.), which keeps the core testable with
// mocks and fakes.
package ports
