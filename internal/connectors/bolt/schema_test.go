package bolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestTables(t *testing.T) {
	t.Run("registry has 21 unique tables", func(t *testing.T) {
		seen := map[string]bool{}
		for _, table := range Tables {
			assert.False(t, seen[table.Name], "duplicate table %s", table.Name)
			seen[table.Name] = true
			assert.True(t, table.Kind.IsValid(), table.Name)
			assert.NotEmpty(t, table.PrimaryKey, table.Name)
		}
		assert.Len(t, Tables, 21)
	})

	t.Run("event tables carry a seed token", func(t *testing.T) {
		for _, table := range Tables {
			if table.Kind.IsEvent() {
				assert.NotEmpty(t, table.InitialEventToken, table.Name)
				assert.Equal(t, []string{"event_id"}, table.PrimaryKey)
			} else {
				assert.NotEmpty(t, table.EnvelopeKey, table.Name)
			}
		}
	})

	t.Run("envelope keys that differ from the name", func(t *testing.T) {
		schedules, _ := Tables.Lookup("schedules")
		invoices, _ := Tables.Lookup("invoices")
		assert.Equal(t, "work_orders", schedules.EnvelopeKey)
		assert.Equal(t, "accounting_invoices", invoices.EnvelopeKey)
	})
}

func TestSchema(t *testing.T) {
	schema := Schema()
	require.Len(t, schema, len(Tables))

	for i, ts := range schema {
		t.Run(ts.Table, func(t *testing.T) {
			assert.Equal(t, Tables[i].Name, ts.Table)
			require.NotEmpty(t, ts.Columns)

			names := map[string]bool{}
			for _, c := range ts.Columns {
				assert.False(t, names[c.Name], "duplicate column %s", c.Name)
				names[c.Name] = true
				assert.True(t, c.Type.IsValid())
			}
			for _, pk := range ts.PrimaryKey {
				assert.True(t, names[pk], "primary key %s not declared", pk)
			}
		})
	}
}

func TestSchema_Types(t *testing.T) {
	jobs := TableSchemaFor(mustTable(t, "jobs"))

	col, ok := jobs.Column("start_date")
	require.True(t, ok)
	assert.Equal(t, domain.TypeNaiveDate, col.Type)

	col, ok = jobs.Column("created_at")
	require.True(t, ok)
	assert.Equal(t, domain.TypeUTCDateTime, col.Type)

	col, ok = jobs.Column("address")
	require.True(t, ok)
	assert.Equal(t, domain.TypeString, col.Type)

	customers := TableSchemaFor(mustTable(t, "customers"))
	col, ok = customers.Column("billing_contact_cellphone")
	require.True(t, ok)
	assert.Equal(t, domain.TypeString, col.Type)
}

func TestColumns_BadSuffixPanics(t *testing.T) {
	assert.Panics(t, func() { columns("id:X") })
}
