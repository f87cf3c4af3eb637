package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// LoadState returns the last checkpointed state, or an empty state.
func (s *Store) LoadState(ctx context.Context) (*domain.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	row := s.conn().QueryRowContext(ctx, "SELECT data FROM sync_state WHERE id = 1")
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewSyncState(), nil
		}
		return nil, fmt.Errorf("loading sync state: %w", err)
	}

	state, err := domain.ParseSyncState([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("loading sync state: %w", err)
	}
	return state, nil
}

// SaveState replaces the persisted state. Pending upserts are committed
// with it.
func (s *Store) SaveState(ctx context.Context, state *domain.SyncState) error {
	return s.Checkpoint(ctx, state)
}

// writeState upserts the state document. Caller must hold mu.
func (s *Store) writeState(ctx context.Context, state *domain.SyncState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling sync state: %w", err)
	}

	_, err = s.conn().ExecContext(ctx, `
		INSERT INTO sync_state (id, data, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, string(data))
	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}
