// Package sqlite provides the SQLite warehouse behind the driven sink,
// state and run-store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file holds:
//
//   - one table per registry table, provisioned from the schema declaration
//   - sync_state: the checkpointed sync state as a JSON document
//   - sync_runs: the history of run summaries
//
// # Transactions
//
// Upserts are buffered in a transaction that the next Checkpoint commits
// together with the new state. A crash between checkpoints loses only the
// uncommitted upserts, and the next run replays them from the previous
// checkpoint. Replays are absorbed by ON CONFLICT upserts on the primary key.
//
// # Schema
//
// The bookkeeping tables are managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.boltsync/data/boltsync.db
package sqlite
