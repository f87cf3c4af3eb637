// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Upstream: Fetches and decodes one page of a table from the API
//   - Normaliser: Maps a raw record onto the table's flat column set
//   - Sink: Receives upserts and checkpoints
//   - StateStore: Loads the last checkpointed sync state
//   - ConfigStore: Loads and persists the connector configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Keeps a history of run summaries
//   - Pacer: Spaces requests to respect the upstream rate ceiling
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
