package services

import (
	"context"
	"fmt"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/logger"
)

// syncBatchTable drives the next_batch pagination of a snapshot table.
//
// next_batch is preferred, refresh_token is the fallback, and the very
// first request carries neither. Every page with records is upserted and
// checkpointed before the next one is requested. An empty page ends the
// table without moving the cursor.
func (o *SyncOrchestrator) syncBatchTable(
	ctx context.Context,
	table domain.Table,
	state *domain.SyncState,
	result *domain.TableResult,
) (domain.TableOutcome, error) {
	log := logger.Table(table.Name)
	ts := state.Table(table.Name)

	if ts.BatchCursor().Exhausted() {
		log.Debug("No cursor held, starting from the first page")
	}

	for {
		if err := o.pace(ctx); err != nil {
			return domain.OutcomeHardFailed, err
		}

		cursor := ts.BatchCursor()
		page, err := o.upstream.FetchBatchPage(ctx, table, cursor)
		if err != nil {
			return domain.OutcomeHardFailed, fmt.Errorf("fetch page: %w", err)
		}

		if page.Outcome == domain.PageNoData {
			return domain.OutcomeSoftFailed, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, page.Reason)
		}

		if page.Empty {
			log.Debug("No records returned, table done")
			return domain.OutcomeCompleted, nil
		}

		dropped, err := o.applyRecords(ctx, table, page.Records, result)
		if err != nil {
			return domain.OutcomeHardFailed, err
		}

		next := domain.BatchCursor{
			NextBatch:    page.NextBatch,
			RefreshToken: cursor.RefreshToken,
		}
		if page.RefreshToken != "" {
			next.RefreshToken = page.RefreshToken
		}
		ts.SetBatchCursor(next)

		if err := o.checkpoint(ctx, table, state, result, dropped+page.Skipped); err != nil {
			return domain.OutcomeHardFailed, err
		}

		log.Debug("Page %d: %d records so far", result.Pages, result.Records)

		if next.NextBatch == "" {
			return domain.OutcomeCompleted, nil
		}
	}
}
