package domain

// ColumnType is a destination column type.
type ColumnType string

// Supported column types.
const (
	TypeLong        ColumnType = "LONG"
	TypeFloat       ColumnType = "FLOAT"
	TypeString      ColumnType = "STRING"
	TypeBoolean     ColumnType = "BOOLEAN"
	TypeNaiveDate   ColumnType = "NAIVE_DATE"
	TypeUTCDateTime ColumnType = "UTC_DATETIME"
)

// IsValid returns true if the column type is recognised.
func (t ColumnType) IsValid() bool {
	switch t {
	case TypeLong, TypeFloat, TypeString, TypeBoolean, TypeNaiveDate, TypeUTCDateTime:
		return true
	default:
		return false
	}
}

// Column is one declared column.
type Column struct {
	Name string
	Type ColumnType
}

// TableSchema is the static declaration of a destination table.
// It is consumed once to provision the destination and is never
// computed from data.
type TableSchema struct {
	Table      string
	PrimaryKey []string
	Columns    []Column
}

// Column returns the declared column with the given name.
func (s TableSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the declared column names in order.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}
