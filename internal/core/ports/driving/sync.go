package driving

import (
	"context"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// SyncOrchestrator coordinates table synchronisation.
type SyncOrchestrator interface {
	// SyncAll synchronises every table of the registry once.
	// Per-table failures are recorded in the returned run, not returned
	// as an error. Only configuration and state-loading failures are.
	SyncAll(ctx context.Context) (*domain.SyncRun, error)

	// SyncTables synchronises the named tables once, in registry order.
	SyncTables(ctx context.Context, tables []string) (*domain.SyncRun, error)

	// Status returns the progress of the running sync.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the running sync.
	RunID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Table is the table currently being synchronised.
	Table string

	// RecordsProcessed is the count of records upserted so far.
	RecordsProcessed int

	// ErrorCount is the number of failed tables so far.
	ErrorCount int
}
