package domain

import "encoding/json"

// RawRecord is one JSON object as returned by the upstream API.
// Values keep their original encoding until normalisation.
type RawRecord map[string]json.RawMessage

// Record is a normalised, flat row.
// Values are nil, string, int64, float64 or bool. Nested upstream values
// arrive here as JSON-encoded strings.
type Record map[string]any

// Clone returns a shallow copy. Values are immutable scalars.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// PageOutcome is the result of fetching one page.
type PageOutcome int

const (
	// PageOK means the page was fetched and decoded.
	PageOK PageOutcome = iota

	// PageNoData means the upstream kept failing with transient errors
	// until the retry budget was spent. The table is skipped for this run.
	PageNoData
)

// String returns the string representation.
func (o PageOutcome) String() string {
	switch o {
	case PageOK:
		return "ok"
	case PageNoData:
		return "no-data"
	default:
		return "unknown"
	}
}

// BatchPage is one decoded page of a snapshot table.
type BatchPage struct {
	// Outcome reports whether the page carries data.
	Outcome PageOutcome

	// Reason describes a PageNoData outcome.
	Reason string

	// Empty is true when the body was null, {} or [].
	Empty bool

	// Records holds the objects found under the table's envelope key.
	Records []RawRecord

	// Skipped counts array entries that were not JSON objects.
	Skipped int

	// NextBatch is the continuation token, empty on the last page.
	NextBatch string

	// RefreshToken is the re-anchor token, empty when not sent.
	RefreshToken string
}

// EventPage is one decoded page of an event stream.
type EventPage struct {
	// Outcome reports whether the page carries data.
	Outcome PageOutcome

	// Reason describes a PageNoData outcome.
	Reason string

	// Events holds the event objects of the page.
	Events []RawRecord

	// Skipped counts array entries that were not JSON objects.
	Skipped int

	// EventToken is the token of the next page, empty when not sent.
	EventToken string
}
