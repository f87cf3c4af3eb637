package domain

// TableKind selects the pagination strategy used for a table.
type TableKind string

// Available table kinds.
const (
	// KindSnapshot tables page with an opaque next_batch token and
	// carry an optional refresh_token across runs.
	KindSnapshot TableKind = "snapshot"

	// KindJobEvents is the job change-event stream.
	KindJobEvents TableKind = "event-job"

	// KindWorkOrderEvents is the work-order change-event stream.
	KindWorkOrderEvents TableKind = "event-work-order"

	// KindWorkOrderStatusEvents is the work-order-status change-event stream.
	KindWorkOrderStatusEvents TableKind = "event-work-order-status"
)

// IsEvent returns true if the kind pages with an event token.
func (k TableKind) IsEvent() bool {
	switch k {
	case KindJobEvents, KindWorkOrderEvents, KindWorkOrderStatusEvents:
		return true
	default:
		return false
	}
}

// IsValid returns true if the table kind is recognised.
func (k TableKind) IsValid() bool {
	return k == KindSnapshot || k.IsEvent()
}

// String returns the string representation.
func (k TableKind) String() string {
	return string(k)
}

// Table is one entry of the static table registry.
type Table struct {
	// Name is the destination table name.
	Name string

	// Path is the endpoint path appended to the base URL.
	Path string

	// Kind selects the sync loop.
	Kind TableKind

	// EnvelopeKey is the response key holding the record array.
	// Snapshot tables only. It is not always the table name.
	EnvelopeKey string

	// AllowBareArray accepts a response body that is the record array itself.
	AllowBareArray bool

	// PrimaryKey lists the declared primary-key columns.
	PrimaryKey []string

	// InitialEventToken seeds the event cursor on the first run.
	// Event tables only. Treated as an opaque vendor-issued value.
	InitialEventToken string
}

// Registry is an ordered, immutable list of tables.
type Registry []Table

// Lookup returns the table with the given name.
func (r Registry) Lookup(name string) (Table, bool) {
	for _, t := range r {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Names returns the table names in registry order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, t := range r {
		names = append(names, t.Name)
	}
	return names
}

// Filter returns the tables named in names, in registry order.
// An empty names slice returns the whole registry.
// Unknown names are reported with ErrUnknownTable.
func (r Registry) Filter(names []string) (Registry, error) {
	if len(names) == 0 {
		return r, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := r.Lookup(n); !ok {
			return nil, &UnknownTableError{Name: n}
		}
		wanted[n] = true
	}

	out := make(Registry, 0, len(wanted))
	for _, t := range r {
		if wanted[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

// UnknownTableError reports a table name that is not in the registry.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return "unknown table: " + e.Name
}

// Unwrap allows errors.Is(err, ErrUnknownTable).
func (e *UnknownTableError) Unwrap() error {
	return ErrUnknownTable
}
