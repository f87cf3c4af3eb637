package driving

import (
	"context"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// StateService inspects and edits the persisted sync state.
type StateService interface {
	// Show returns the current sync state.
	Show(ctx context.Context) (*domain.SyncState, error)

	// Reset forgets the state of one table so its next sync restarts.
	Reset(ctx context.Context, table string) error

	// ResetAll forgets the state of every table.
	ResetAll(ctx context.Context) error

	// Import replaces the sync state with a state document.
	Import(ctx context.Context, data []byte) error

	// Runs returns the most recent run summaries, newest first.
	Runs(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
