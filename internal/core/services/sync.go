package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
	"github.com/stancil-services/boltsync/internal/logger"
	"github.com/stancil-services/boltsync/internal/metrics"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator runs the table registry through the batch and event
// loops, one table at a time, isolating per-table failures.
type SyncOrchestrator struct {
	tables     domain.Registry
	upstream   driven.Upstream
	normaliser driven.Normaliser
	sink       driven.Sink
	stateStore driven.StateStore
	runStore   driven.RunStore
	pacer      driven.Pacer

	// maxEventPages bounds the pages read from one event stream per run.
	// Zero means unbounded.
	maxEventPages int

	now func() time.Time

	// Status tracking
	mu     sync.RWMutex
	status *driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// runStore and pacer are optional. Without a pacer requests are not spaced.
func NewSyncOrchestrator(
	tables domain.Registry,
	upstream driven.Upstream,
	normaliser driven.Normaliser,
	sink driven.Sink,
	stateStore driven.StateStore,
	runStore driven.RunStore,
	pacer driven.Pacer,
	maxEventPages int,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		tables:        tables,
		upstream:      upstream,
		normaliser:    normaliser,
		sink:          sink,
		stateStore:    stateStore,
		runStore:      runStore,
		pacer:         pacer,
		maxEventPages: maxEventPages,
		now:           time.Now,
	}
}

// SyncAll synchronises every table of the registry once.
func (o *SyncOrchestrator) SyncAll(ctx context.Context) (*domain.SyncRun, error) {
	return o.SyncTables(ctx, nil)
}

// SyncTables synchronises the named tables once, in registry order.
// An empty list means every table.
func (o *SyncOrchestrator) SyncTables(ctx context.Context, names []string) (*domain.SyncRun, error) {
	tables, err := o.tables.Filter(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: o.now(),
	}
	if !o.begin(run.ID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.end()

	state, err := o.stateStore.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	logger.Info("Starting sync run %s (%d tables)", run.ID, len(tables))

	var runErr error
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		o.setTable(table.Name)
		result := o.syncTable(ctx, table, state)

		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Table(table.Name).Warn("Sync interrupted, resuming from last checkpoint next run")
			runErr = ctx.Err()
			break
		}

		run.Tables = append(run.Tables, result)
		metrics.TableOutcomes.WithLabelValues(table.Name, string(result.Outcome)).Inc()
	}

	run.EndedAt = o.now()
	o.saveRun(ctx, run)
	metrics.RecordRunFinished(run.EndedAt)

	completed, failed := run.Completed(), run.Failed()
	logger.Info("Sync run %s finished: %d completed, %d failed, %d records",
		run.ID, len(completed), len(failed), run.Records())
	if len(failed) > 0 {
		logger.Warn("Failed tables: %v", failed)
	}

	if runErr != nil {
		return run, fmt.Errorf("sync interrupted: %w", runErr)
	}
	return run, nil
}

// Status returns the progress of the running sync.
func (o *SyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		return &driving.SyncStatus{Running: false}, nil
	}

	// Return a copy to avoid race conditions
	cp := *o.status
	return &cp, nil
}

// syncTable dispatches a table to its loop and records the outcome in
// the table state. A failure never escapes this function.
func (o *SyncOrchestrator) syncTable(ctx context.Context, table domain.Table, state *domain.SyncState) domain.TableResult {
	log := logger.Table(table.Name)
	logger.Section(table.Name)

	result := domain.TableResult{Table: table.Name}

	var err error
	if table.Kind.IsEvent() {
		result.Outcome, err = o.syncEventTable(ctx, table, state, &result)
	} else {
		result.Outcome, err = o.syncBatchTable(ctx, table, state, &result)
	}

	ts := state.Table(table.Name)
	if err != nil {
		if ctx.Err() != nil {
			return result
		}
		result.Error = err.Error()
		log.Error("Sync failed (%s): %v", result.Outcome, err)
		o.countError()

		ts.MarkError(err.Error(), o.now())
		if cpErr := o.sink.Checkpoint(ctx, state); cpErr != nil {
			log.Error("Failed to checkpoint error marker: %v", cpErr)
		}
		return result
	}

	if ts.SyncError != "" {
		ts.ClearError()
		if cpErr := o.sink.Checkpoint(ctx, state); cpErr != nil {
			log.Warn("Failed to checkpoint cleared error: %v", cpErr)
		}
	}

	log.Info("Sync %s: %d records, %d dropped, %d pages",
		result.Outcome, result.Records, result.Dropped, result.Pages)
	return result
}

// applyRecords normalises and upserts the records of one page and
// returns how many were dropped. Dropped records are never returned as
// errors. A sink failure stops the page.
func (o *SyncOrchestrator) applyRecords(
	ctx context.Context,
	table domain.Table,
	records []domain.RawRecord,
	result *domain.TableResult,
) (int, error) {
	log := logger.Table(table.Name)

	dropped := 0
	for _, raw := range records {
		rec, err := o.normaliser.Normalise(table, raw)
		if err != nil {
			dropped++
			log.Debug("Skipping record: %v", err)
			continue
		}

		if err := o.sink.Upsert(ctx, table.Name, rec); err != nil {
			return dropped, fmt.Errorf("upsert: %w", err)
		}
		result.Records++
		metrics.RecordsUpserted.WithLabelValues(table.Name).Inc()
		o.countRecord()
	}
	return dropped, nil
}

// checkpoint persists the table's progress after a page. dropped is the
// number of records the page lost, both malformed on the wire and
// rejected by the normaliser.
func (o *SyncOrchestrator) checkpoint(
	ctx context.Context,
	table domain.Table,
	state *domain.SyncState,
	result *domain.TableResult,
	dropped int,
) error {
	ts := state.Table(table.Name)
	ts.TotalRecords = result.Records
	ts.LastSync = domain.EpochTime{Time: o.now()}

	if err := o.sink.Checkpoint(ctx, state); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	result.Pages++
	metrics.PagesProcessed.WithLabelValues(table.Name).Inc()

	if dropped > 0 {
		result.Dropped += dropped
		metrics.RecordsDropped.WithLabelValues(table.Name).Add(float64(dropped))
		logger.Table(table.Name).Warn("Page %d: %d records dropped (%d total)",
			result.Pages, dropped, result.Dropped)
	}
	return nil
}

// pace waits for the pacer before a request.
func (o *SyncOrchestrator) pace(ctx context.Context) error {
	if o.pacer == nil {
		return ctx.Err()
	}
	return o.pacer.Wait(ctx)
}

func (o *SyncOrchestrator) saveRun(ctx context.Context, run *domain.SyncRun) {
	if o.runStore == nil {
		return
	}
	// Stored even when the run was cancelled.
	if err := o.runStore.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to save run summary: %v", err)
	}
}

func (o *SyncOrchestrator) begin(runID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil && o.status.Running {
		return false
	}
	o.status = &driving.SyncStatus{RunID: runID, Running: true}
	return true
}

func (o *SyncOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		o.status.Running = false
		o.status.Table = ""
	}
}

func (o *SyncOrchestrator) setTable(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Table = name
}

func (o *SyncOrchestrator) countRecord() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.RecordsProcessed++
}

func (o *SyncOrchestrator) countError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.ErrorCount++
}
