package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// StateVersion is the current sync state schema version.
const StateVersion = 1

// SyncState is the persisted pagination progress of every table.
// It is checkpointed after every processed page and is the resumption
// point of the next run.
type SyncState struct {
	// Version is the schema version for future migrations.
	Version int `json:"v"`

	// Tables maps table name to its state.
	Tables map[string]*TableState `json:"tables"`
}

// TableState tracks sync progress for a single table.
// JSON field names match the legacy flat state document so older
// checkpoints can be imported as-is.
type TableState struct {
	// NextBatch is the continuation token of a snapshot table.
	// Empty means no further page is pending.
	NextBatch string `json:"next_batch,omitempty"`

	// RefreshToken re-anchors a snapshot table when NextBatch is empty.
	RefreshToken string `json:"refresh_token,omitempty"`

	// EventToken is the position in an event stream.
	EventToken string `json:"event_token,omitempty"`

	// TotalRecords is the number of records upserted by the latest run.
	TotalRecords int `json:"total_records,omitempty"`

	// PagesProcessed is the number of event pages consumed by the latest run.
	PagesProcessed int `json:"pages_processed,omitempty"`

	// LastSync is when the table was last touched.
	LastSync EpochTime `json:"last_sync,omitzero"`

	// SyncError is the last failure recorded for the table, if any.
	SyncError string `json:"sync_error,omitempty"`
}

// BatchCursor is the cursor of a snapshot table.
type BatchCursor struct {
	NextBatch    string
	RefreshToken string
}

// Exhausted reports whether no token is held at all.
func (c BatchCursor) Exhausted() bool {
	return c.NextBatch == "" && c.RefreshToken == ""
}

// EventCursor is the cursor of an event stream.
type EventCursor struct {
	EventToken string
}

// NewSyncState creates an empty sync state.
func NewSyncState() *SyncState {
	return &SyncState{
		Version: StateVersion,
		Tables:  make(map[string]*TableState),
	}
}

// Table returns the state for a table, creating it if absent.
func (s *SyncState) Table(name string) *TableState {
	if s.Tables == nil {
		s.Tables = make(map[string]*TableState)
	}
	ts, ok := s.Tables[name]
	if !ok {
		ts = &TableState{}
		s.Tables[name] = ts
	}
	return ts
}

// Lookup returns the state for a table without creating it.
func (s *SyncState) Lookup(name string) (*TableState, bool) {
	if s == nil || s.Tables == nil {
		return nil, false
	}
	ts, ok := s.Tables[name]
	return ts, ok
}

// Reset removes the state for a table.
func (s *SyncState) Reset(name string) {
	delete(s.Tables, name)
}

// TableNames returns the names of all tables with state, sorted.
func (s *SyncState) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
// Sinks receive clones so later mutation cannot alter a checkpoint.
func (s *SyncState) Clone() *SyncState {
	c := &SyncState{
		Version: s.Version,
		Tables:  make(map[string]*TableState, len(s.Tables)),
	}
	for name, ts := range s.Tables {
		cp := *ts
		c.Tables[name] = &cp
	}
	return c
}

// BatchCursor returns the snapshot cursor held in the state.
func (t *TableState) BatchCursor() BatchCursor {
	return BatchCursor{NextBatch: t.NextBatch, RefreshToken: t.RefreshToken}
}

// SetBatchCursor stores a snapshot cursor.
func (t *TableState) SetBatchCursor(c BatchCursor) {
	t.NextBatch = c.NextBatch
	t.RefreshToken = c.RefreshToken
}

// EventCursor returns the event cursor, seeded with seed when none is held.
func (t *TableState) EventCursor(seed string) EventCursor {
	if t.EventToken == "" {
		return EventCursor{EventToken: seed}
	}
	return EventCursor{EventToken: t.EventToken}
}

// SetEventCursor stores an event cursor.
func (t *TableState) SetEventCursor(c EventCursor) {
	t.EventToken = c.EventToken
}

// MarkError records a failure. The cursor is left untouched.
func (t *TableState) MarkError(msg string, at time.Time) {
	t.SyncError = msg
	t.LastSync = EpochTime{Time: at}
}

// ClearError forgets a previously recorded failure.
func (t *TableState) ClearError() {
	t.SyncError = ""
}

// ParseSyncState decodes a state document.
// Both the native {"v":1,"tables":{...}} shape and the flat
// legacy {"<table>":{...}} shape are accepted.
func ParseSyncState(data []byte) (*SyncState, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: state is not a JSON object: %w", ErrInvalidInput, err)
	}

	if _, native := probe["tables"]; native {
		state := NewSyncState()
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("%w: decoding state: %w", ErrInvalidInput, err)
		}
		if state.Tables == nil {
			state.Tables = make(map[string]*TableState)
		}
		if state.Version > StateVersion {
			return nil, fmt.Errorf("%w: state version %d is newer than %d", ErrInvalidInput, state.Version, StateVersion)
		}
		return state, nil
	}

	state := NewSyncState()
	for name, raw := range probe {
		var ts TableState
		if err := json.Unmarshal(raw, &ts); err != nil {
			return nil, fmt.Errorf("%w: decoding state for %s: %w", ErrInvalidInput, name, err)
		}
		state.Tables[name] = &ts
	}
	return state, nil
}

// EpochTime is a timestamp serialised as fractional Unix seconds.
type EpochTime struct {
	time.Time
}

// MarshalJSON encodes the time as Unix seconds with up to nine
// fractional digits. The zero time encodes as null.
func (e EpochTime) MarshalJSON() ([]byte, error) {
	if e.IsZero() {
		return []byte("null"), nil
	}
	out := strconv.FormatInt(e.Unix(), 10)
	if ns := e.Nanosecond(); ns > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
		out += "." + frac
	}
	return []byte(out), nil
}

// UnmarshalJSON accepts Unix seconds, an RFC 3339 string, or null.
func (e *EpochTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.Time = time.Time{}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		t, err := parseEpochSeconds(num.String())
		if err != nil {
			return fmt.Errorf("last_sync: %w", err)
		}
		e.Time = t
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("last_sync: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("last_sync: %w", err)
	}
	e.Time = t
	return nil
}

// parseEpochSeconds splits the decimal text into whole seconds and
// nanoseconds so no precision is lost to float64. Digits past the ninth
// are truncated. Exponent notation falls back to float parsing.
func parseEpochSeconds(text string) (time.Time, error) {
	if strings.ContainsAny(text, "eE") {
		secs, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC(), nil
	}

	wholeText, fracText, _ := strings.Cut(text, ".")
	negative := strings.HasPrefix(wholeText, "-")
	whole, err := strconv.ParseInt(wholeText, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	var nanos int64
	if fracText != "" {
		if len(fracText) > 9 {
			fracText = fracText[:9]
		}
		fracText += strings.Repeat("0", 9-len(fracText))
		nanos, err = strconv.ParseInt(fracText, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
	}
	if negative {
		nanos = -nanos
	}
	return time.Unix(whole, nanos).UTC(), nil
}
