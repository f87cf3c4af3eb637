package driven

import (
	"context"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// Upstream fetches pages from the remote API.
//
// A page whose transient failures outlasted the retry budget is returned
// with Outcome PageNoData and a nil error. Any other failure is an error.
type Upstream interface {
	// FetchBatchPage fetches one page of a snapshot table.
	// NextBatch is sent when set, otherwise RefreshToken, otherwise nothing.
	FetchBatchPage(ctx context.Context, table domain.Table, cursor domain.BatchCursor) (*domain.BatchPage, error)

	// FetchEventPage fetches one page of an event stream.
	FetchEventPage(ctx context.Context, table domain.Table, cursor domain.EventCursor) (*domain.EventPage, error)
}

// Pacer spaces consecutive requests.
type Pacer interface {
	// Wait blocks until the next request may be sent.
	Wait(ctx context.Context) error
}
