package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/logger"
)

// sqlTypes maps declared column types to SQLite affinities.
var sqlTypes = map[domain.ColumnType]string{
	domain.TypeLong:        "INTEGER",
	domain.TypeFloat:       "REAL",
	domain.TypeBoolean:     "INTEGER",
	domain.TypeString:      "TEXT",
	domain.TypeNaiveDate:   "TEXT",
	domain.TypeUTCDateTime: "TEXT",
}

// Provision creates the destination tables of the schema declaration and
// adds declared columns missing from existing tables. Columns are never
// dropped.
func (s *Store) Provision(ctx context.Context, schemas []domain.TableSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ts := range schemas {
		if err := s.provisionTable(ctx, ts); err != nil {
			return fmt.Errorf("provisioning %s: %w", ts.Table, err)
		}
		s.schemas[ts.Table] = ts
	}
	return nil
}

// provisionTable creates one table. Caller must hold mu.
func (s *Store) provisionTable(ctx context.Context, ts domain.TableSchema) error {
	if len(ts.PrimaryKey) == 0 {
		return fmt.Errorf("%w: no primary key", domain.ErrInvalidInput)
	}

	defs := make([]string, 0, len(ts.Columns))
	for _, c := range ts.Columns {
		defs = append(defs, quoteIdent(c.Name)+" "+sqlType(c.Type))
	}
	pk := make([]string, 0, len(ts.PrimaryKey))
	for _, k := range ts.PrimaryKey {
		pk = append(pk, quoteIdent(k))
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, PRIMARY KEY (%s))",
		quoteIdent(ts.Table), strings.Join(defs, ", "), strings.Join(pk, ", "))
	if _, err := s.conn().ExecContext(ctx, ddl); err != nil {
		return err
	}

	existing, err := s.tableColumns(ctx, ts.Table)
	if err != nil {
		return err
	}
	for _, c := range ts.Columns {
		if existing[c.Name] {
			continue
		}
		if err := s.addColumn(ctx, ts.Table, c.Name, sqlType(c.Type)); err != nil {
			return err
		}
		existing[c.Name] = true
	}
	s.columns[ts.Table] = existing
	return nil
}

// tableColumns reads the column names of a table. Caller must hold mu.
func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.conn().QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// addColumn adds a column. An empty sqlType adds an untyped column.
// Caller must hold mu.
func (s *Store) addColumn(ctx context.Context, table, column, colType string) error {
	ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(table), quoteIdent(column))
	if colType != "" {
		ddl += " " + colType
	}
	if _, err := s.conn().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("adding column %s: %w", column, err)
	}
	return nil
}

// Upsert merges one row by primary key into the pending transaction.
// Columns the schema does not declare are added untyped.
func (s *Store) Upsert(ctx context.Context, table string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.schemas[table]
	if !ok {
		return &domain.UnknownTableError{Name: table}
	}
	for _, k := range ts.PrimaryKey {
		if record[k] == nil {
			return fmt.Errorf("%w: %s: missing primary key %q", domain.ErrInvalidInput, table, k)
		}
	}

	if _, err := s.begin(ctx); err != nil {
		return err
	}

	cols := make([]string, 0, len(record))
	for c := range record {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	known := s.columns[table]
	for _, c := range cols {
		if known[c] {
			continue
		}
		logger.Table(table).Debug("Adding undeclared column %s", c)
		if err := s.addColumn(ctx, table, c, ""); err != nil {
			return err
		}
		known[c] = true
		s.pendingColumns[table] = append(s.pendingColumns[table], c)
	}

	query, args := upsertStatement(ts, cols, record)
	if _, err := s.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting into %s: %w", table, err)
	}
	return nil
}

// Checkpoint writes state and commits it together with every upsert
// buffered since the previous checkpoint.
func (s *Store) Checkpoint(ctx context.Context, state *domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.begin(ctx); err != nil {
		return err
	}
	if err := s.writeState(ctx, state); err != nil {
		_ = s.rollback()
		return err
	}
	return s.commit()
}

// CountRows returns the number of rows in a provisioned table.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schemas[table]; !ok {
		return 0, &domain.UnknownTableError{Name: table}
	}
	var n int
	row := s.conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// upsertStatement builds an INSERT ... ON CONFLICT DO UPDATE for cols.
func upsertStatement(ts domain.TableSchema, cols []string, record domain.Record) (string, []any) {
	isPK := make(map[string]bool, len(ts.PrimaryKey))
	pk := make([]string, 0, len(ts.PrimaryKey))
	for _, k := range ts.PrimaryKey {
		isPK[k] = true
		pk = append(pk, quoteIdent(k))
	}

	quoted := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	updates := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		q := quoteIdent(c)
		quoted = append(quoted, q)
		placeholders = append(placeholders, "?")
		args = append(args, record[c])
		if !isPK[c] {
			updates = append(updates, q+" = excluded."+q)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) ",
		quoteIdent(ts.Table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "), strings.Join(pk, ", "))
	if len(updates) == 0 {
		query += "DO NOTHING"
	} else {
		query += "DO UPDATE SET " + strings.Join(updates, ", ")
	}
	return query, args
}

func sqlType(t domain.ColumnType) string {
	if st, ok := sqlTypes[t]; ok {
		return st
	}
	return "TEXT"
}
