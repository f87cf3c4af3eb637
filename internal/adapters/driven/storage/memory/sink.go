package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// Ensure Sink implements the interfaces.
var (
	_ driven.Sink       = (*Sink)(nil)
	_ driven.StateStore = (*Sink)(nil)
)

// Sink is an in-memory implementation of driven.Sink and driven.StateStore.
// Rows are merged by the primary key declared in the registry. The last
// checkpoint doubles as the loadable state.
type Sink struct {
	mu          sync.RWMutex
	primaryKeys map[string][]string
	rows        map[string]map[string]domain.Record
	state       *domain.SyncState
	checkpoints int
	upserts     int
}

// NewSink creates a new in-memory sink for the tables of registry.
func NewSink(registry domain.Registry) *Sink {
	pks := make(map[string][]string, len(registry))
	for _, t := range registry {
		pks[t.Name] = t.PrimaryKey
	}
	return &Sink{
		primaryKeys: pks,
		rows:        make(map[string]map[string]domain.Record),
		state:       domain.NewSyncState(),
	}
}

// Upsert merges one row by primary key.
func (s *Sink) Upsert(_ context.Context, table string, record domain.Record) error {
	pk, ok := s.primaryKeys[table]
	if !ok {
		return &domain.UnknownTableError{Name: table}
	}
	key, err := rowKey(pk, record)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		rows = make(map[string]domain.Record)
		s.rows[table] = rows
	}
	rows[key] = record.Clone()
	s.upserts++
	return nil
}

// Checkpoint stores a copy of state.
func (s *Sink) Checkpoint(_ context.Context, state *domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.checkpoints++
	return nil
}

// LoadState returns a copy of the last checkpoint.
func (s *Sink) LoadState(_ context.Context) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

// SaveState replaces the stored state.
func (s *Sink) SaveState(_ context.Context, state *domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}

// Rows returns the rows of a table ordered by primary key.
func (s *Sink) Rows(table string) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[k].Clone())
	}
	return out
}

// Count returns the number of rows in a table.
func (s *Sink) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows[table])
}

// Upserts returns the number of Upsert calls accepted.
func (s *Sink) Upserts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upserts
}

// Checkpoints returns the number of Checkpoint calls.
func (s *Sink) Checkpoints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpoints
}

// rowKey renders the primary-key values of record.
func rowKey(pk []string, record domain.Record) (string, error) {
	parts := make([]string, 0, len(pk))
	for _, col := range pk {
		v, ok := record[col]
		if !ok || v == nil {
			return "", fmt.Errorf("%w: missing primary key %q", domain.ErrInvalidInput, col)
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, "\x00"), nil
}
