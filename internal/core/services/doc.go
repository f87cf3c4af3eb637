// Package services implements the driving port interfaces.
// Services contain the core sync logic and orchestrate calls to
// driven ports (adapters).
//
// The orchestrator walks the table registry sequentially. Snapshot
// tables go through the batch loop, event streams through the event
// loop. Each processed page is upserted and then checkpointed, so the
// last checkpoint is always a safe resumption point.
//
// Services are pure Go with no CGO.
package services
