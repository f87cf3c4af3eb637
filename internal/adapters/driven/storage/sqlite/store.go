package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stancil-services/boltsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// DefaultFileName is the database file used when no path is configured.
const DefaultFileName = "boltsync.db"

// Ensure Store implements the interfaces.
var (
	_ driven.Sink       = (*Store)(nil)
	_ driven.StateStore = (*Store)(nil)
	_ driven.RunStore   = (*Store)(nil)
)

// Store is the SQLite warehouse. It holds the synced tables, the
// checkpointed sync state and the run history in one database file.
//
// Upserts are buffered in a transaction that the next Checkpoint commits
// together with the state, so a checkpoint is never durable before the
// rows that precede it.
type Store struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	tx      *sql.Tx
	schemas map[string]domain.TableSchema
	columns map[string]map[string]bool

	// pendingColumns lists columns added inside the pending transaction.
	pendingColumns map[string][]string
}

// NewStore opens or creates the SQLite database at path.
// If path is empty, defaults to ~/.boltsync/data/boltsync.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".boltsync", "data", DefaultFileName)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:             db,
		path:           path,
		schemas:        make(map[string]domain.TableSchema),
		columns:        make(map[string]map[string]bool),
		pendingColumns: make(map[string][]string),
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close discards any uncheckpointed upserts and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	_ = s.rollback()
	s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// rollback aborts the pending transaction and forgets the columns it
// added. Caller must hold mu.
func (s *Store) rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	for table, cols := range s.pendingColumns {
		for _, c := range cols {
			delete(s.columns[table], c)
		}
	}
	clear(s.pendingColumns)
	return err
}

// begin returns the pending transaction, opening one if needed.
// Caller must hold mu.
func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

// commit commits the pending transaction. Caller must hold mu.
func (s *Store) commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	clear(s.pendingColumns)
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the pending transaction or the database. Caller must hold mu.
func (s *Store) conn() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// migrate runs all pending migrations.
func (s *Store) migrate() error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Up()
	if err != nil {
		return err
	}

	for _, m := range pending {
		if m.Version <= currentVersion {
			continue // Already applied
		}
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
	}

	return nil
}

// quoteIdent quotes an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
