package driven

import (
	"context"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// Sink receives the output of a sync.
//
// Checkpoint must only be durable once every preceding Upsert is durable.
// Upserts are merged by primary key so replaying a page is idempotent.
type Sink interface {
	// Upsert declares one row to be merged by primary key.
	Upsert(ctx context.Context, table string, record domain.Record) error

	// Checkpoint declares state as the new resumption point.
	Checkpoint(ctx context.Context, state *domain.SyncState) error
}

// StateStore loads and replaces the persisted sync state.
type StateStore interface {
	// LoadState returns the last checkpointed state.
	// Returns an empty state when nothing was checkpointed yet.
	LoadState(ctx context.Context) (*domain.SyncState, error)

	// SaveState replaces the persisted state outside of a sync.
	SaveState(ctx context.Context, state *domain.SyncState) error
}

// RunStore keeps the history of run summaries.
type RunStore interface {
	// SaveRun stores a run summary.
	SaveRun(ctx context.Context, run *domain.SyncRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
