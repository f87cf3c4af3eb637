package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// tableResultRow is the JSON shape of a TableResult in sync_runs.tables.
type tableResultRow struct {
	Table   string `json:"table"`
	Outcome string `json:"outcome"`
	Records int    `json:"records"`
	Dropped int    `json:"dropped"`
	Pages   int    `json:"pages"`
	Error   string `json:"error,omitempty"`
}

// SaveRun stores a run summary.
func (s *Store) SaveRun(ctx context.Context, run *domain.SyncRun) error {
	rows := make([]tableResultRow, 0, len(run.Tables))
	for _, t := range run.Tables {
		rows = append(rows, tableResultRow{
			Table:   t.Table,
			Outcome: string(t.Outcome),
			Records: t.Records,
			Dropped: t.Dropped,
			Pages:   t.Pages,
			Error:   t.Error,
		})
	}
	tables, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshalling run tables: %w", err)
	}

	var endedAt sql.NullTime
	if !run.EndedAt.IsZero() {
		endedAt = sql.NullTime{Time: run.EndedAt.UTC(), Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.conn().ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, ended_at, records, failed, tables)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			records = excluded.records,
			failed = excluded.failed,
			tables = excluded.tables
	`, run.ID, run.StartedAt.UTC(), endedAt, run.Records(), len(run.Failed()), string(tables))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn().QueryContext(ctx, `
		SELECT id, started_at, ended_at, tables
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		var (
			run     domain.SyncRun
			started time.Time
			ended   sql.NullTime
			tables  string
		)
		if err := rows.Scan(&run.ID, &started, &ended, &tables); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt = started
		if ended.Valid {
			run.EndedAt = ended.Time
		}

		var results []tableResultRow
		if err := json.Unmarshal([]byte(tables), &results); err != nil {
			return nil, fmt.Errorf("decoding run %s: %w", run.ID, err)
		}
		for _, r := range results {
			run.Tables = append(run.Tables, domain.TableResult{
				Table:   r.Table,
				Outcome: domain.TableOutcome(r.Outcome),
				Records: r.Records,
				Dropped: r.Dropped,
				Pages:   r.Pages,
				Error:   r.Error,
			})
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
