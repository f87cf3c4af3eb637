package services

import (
	"context"
	"fmt"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
	"github.com/stancil-services/boltsync/internal/logger"
)

// Ensure StateService implements the interface.
var _ driving.StateService = (*StateService)(nil)

// StateService inspects and edits the persisted sync state.
type StateService struct {
	tables     domain.Registry
	stateStore driven.StateStore
	runStore   driven.RunStore
}

// NewStateService creates a new state service.
// runStore is optional.
func NewStateService(tables domain.Registry, stateStore driven.StateStore, runStore driven.RunStore) *StateService {
	return &StateService{
		tables:     tables,
		stateStore: stateStore,
		runStore:   runStore,
	}
}

// Show returns the current sync state.
func (s *StateService) Show(ctx context.Context) (*domain.SyncState, error) {
	state, err := s.stateStore.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// Reset forgets the state of one table so its next sync restarts from
// the first page, or from the bootstrap token for event streams.
func (s *StateService) Reset(ctx context.Context, table string) error {
	state, err := s.stateStore.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	_, registered := s.tables.Lookup(table)
	_, held := state.Lookup(table)
	if !registered && !held {
		return &domain.UnknownTableError{Name: table}
	}

	state.Reset(table)
	if err := s.stateStore.SaveState(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	logger.Info("Reset state for %s", table)
	return nil
}

// ResetAll forgets the state of every table.
func (s *StateService) ResetAll(ctx context.Context) error {
	if err := s.stateStore.SaveState(ctx, domain.NewSyncState()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	logger.Info("Reset state for all tables")
	return nil
}

// Import replaces the sync state with a state document.
// Tables outside the registry are kept but reported.
func (s *StateService) Import(ctx context.Context, data []byte) error {
	state, err := domain.ParseSyncState(data)
	if err != nil {
		return err
	}

	for _, name := range state.TableNames() {
		if _, ok := s.tables.Lookup(name); !ok {
			logger.Warn("Imported state for unknown table %s", name)
		}
	}

	if err := s.stateStore.SaveState(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	logger.Info("Imported state for %d tables", len(state.Tables))
	return nil
}

// Runs returns the most recent run summaries, newest first.
func (s *StateService) Runs(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if s.runStore == nil {
		return nil, nil
	}
	runs, err := s.runStore.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
