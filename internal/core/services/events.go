package services

import (
	"context"
	"fmt"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/logger"
)

// syncEventTable drives the event_token pagination of an event stream.
//
// The token is seeded from the table's bootstrap value on the first run.
// A page without events, or no data after retries, ends the stream for
// this run with the cursor left where it was. A page with events
// whose token did not move is checkpointed and the table stops as stalled,
// so the same page is never requested twice in one run.
func (o *SyncOrchestrator) syncEventTable(
	ctx context.Context,
	table domain.Table,
	state *domain.SyncState,
	result *domain.TableResult,
) (domain.TableOutcome, error) {
	log := logger.Table(table.Name)
	ts := state.Table(table.Name)
	cursor := ts.EventCursor(table.InitialEventToken)
	ts.PagesProcessed = 0

	for {
		if o.maxEventPages > 0 && result.Pages >= o.maxEventPages {
			log.Warn("Reached %d pages, continuing next run", o.maxEventPages)
			return domain.OutcomeCompleted, nil
		}

		if err := o.pace(ctx); err != nil {
			return domain.OutcomeHardFailed, err
		}

		page, err := o.upstream.FetchEventPage(ctx, table, cursor)
		if err != nil {
			return domain.OutcomeHardFailed, fmt.Errorf("fetch events: %w", err)
		}

		if page.Outcome == domain.PageNoData {
			log.Warn("No data returned (%s), continuing next run", page.Reason)
			return domain.OutcomeCompleted, nil
		}

		if len(page.Events) == 0 && page.Skipped == 0 {
			log.Debug("No new events")
			return domain.OutcomeCompleted, nil
		}

		dropped, err := o.applyRecords(ctx, table, page.Events, result)
		if err != nil {
			return domain.OutcomeHardFailed, err
		}

		stalled := page.EventToken == "" || page.EventToken == cursor.EventToken
		if !stalled {
			cursor = domain.EventCursor{EventToken: page.EventToken}
		}
		ts.SetEventCursor(cursor)
		ts.PagesProcessed = result.Pages + 1

		if err := o.checkpoint(ctx, table, state, result, dropped+page.Skipped); err != nil {
			return domain.OutcomeHardFailed, err
		}

		log.Debug("Page %d: %d events so far", result.Pages, result.Records)

		if stalled {
			log.Warn("Event token did not advance, stopping until next run")
			return domain.OutcomeStalled, nil
		}
	}
}
