package driven

import "github.com/stancil-services/boltsync/internal/core/domain"

// Normaliser transforms raw upstream records into flat rows.
// Rules are selected by table; event tables compose an event_id key.
type Normaliser interface {
	// Normalise maps one raw record for table.
	// Returns an error wrapping domain.ErrRecordDropped when the record
	// lacks its primary key; the caller skips only that record.
	Normalise(table domain.Table, raw domain.RawRecord) (domain.Record, error)
}
