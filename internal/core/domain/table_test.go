package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() Registry {
	return Registry{
		{Name: "cities", Kind: KindSnapshot},
		{Name: "crews", Kind: KindSnapshot},
		{Name: "job_events", Kind: KindJobEvents},
	}
}

func TestTableKind(t *testing.T) {
	tests := []struct {
		kind  TableKind
		event bool
		valid bool
	}{
		{KindSnapshot, false, true},
		{KindJobEvents, true, true},
		{KindWorkOrderEvents, true, true},
		{KindWorkOrderStatusEvents, true, true},
		{TableKind("bogus"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.event, tt.kind.IsEvent())
			assert.Equal(t, tt.valid, tt.kind.IsValid())
		})
	}
}

func TestRegistry_LookupAndNames(t *testing.T) {
	r := testRegistry()

	table, ok := r.Lookup("crews")
	assert.True(t, ok)
	assert.Equal(t, KindSnapshot, table.Kind)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"cities", "crews", "job_events"}, r.Names())
}

func TestRegistry_Filter_EmptyMeansAll(t *testing.T) {
	r := testRegistry()

	out, err := r.Filter(nil)

	require.NoError(t, err)
	assert.Equal(t, r, out)
}

func TestRegistry_Filter_KeepsRegistryOrder(t *testing.T) {
	out, err := testRegistry().Filter([]string{"job_events", "cities", "cities"})

	require.NoError(t, err)
	assert.Equal(t, []string{"cities", "job_events"}, out.Names())
}

func TestRegistry_Filter_Unknown(t *testing.T) {
	_, err := testRegistry().Filter([]string{"cities", "widgets"})

	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.Contains(t, err.Error(), "widgets")
}
