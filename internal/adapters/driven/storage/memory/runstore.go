package memory

import (
	"context"
	"sync"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.SyncRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// SaveRun stores a run summary.
func (s *RunStore) SaveRun(_ context.Context, run *domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	cp.Tables = append([]domain.TableResult(nil), run.Tables...)
	s.runs = append(s.runs, cp)
	return nil
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns every run.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.SyncRun, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}
