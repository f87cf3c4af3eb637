package domain

import "time"

// TableOutcome is the final state of one table within a run.
type TableOutcome string

// Possible table outcomes.
const (
	// OutcomeCompleted means the table reached the end of its stream.
	OutcomeCompleted TableOutcome = "completed"

	// OutcomeSoftFailed means the upstream kept returning transient
	// errors. The cursor is kept and the next run retries.
	OutcomeSoftFailed TableOutcome = "soft_failed"

	// OutcomeHardFailed means any other failure stopped the table.
	OutcomeHardFailed TableOutcome = "hard_failed"

	// OutcomeStalled means an event stream stopped advancing its token.
	OutcomeStalled TableOutcome = "stalled"
)

// Failed returns true for the failure outcomes.
func (o TableOutcome) Failed() bool {
	return o == OutcomeSoftFailed || o == OutcomeHardFailed
}

// TableResult summarises one table within a run.
type TableResult struct {
	// Table is the table name.
	Table string

	// Outcome is how the table finished.
	Outcome TableOutcome

	// Records is the number of records upserted.
	Records int

	// Dropped is the number of records skipped by normalisation.
	Dropped int

	// Pages is the number of pages processed.
	Pages int

	// Error is the failure message, if any.
	Error string
}

// SyncRun summarises one invocation. It is informational only.
type SyncRun struct {
	// ID uniquely identifies the run.
	ID string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Tables holds one result per processed table, in registry order.
	Tables []TableResult
}

// Completed returns the names of tables that did not fail.
func (r *SyncRun) Completed() []string {
	var names []string
	for _, t := range r.Tables {
		if !t.Outcome.Failed() {
			names = append(names, t.Table)
		}
	}
	return names
}

// Failed returns the names of tables that failed.
func (r *SyncRun) Failed() []string {
	var names []string
	for _, t := range r.Tables {
		if t.Outcome.Failed() {
			names = append(names, t.Table)
		}
	}
	return names
}

// Records returns the total number of records upserted.
func (r *SyncRun) Records() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Records
	}
	return total
}
