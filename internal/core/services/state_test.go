package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/adapters/driven/storage/memory"
	"github.com/stancil-services/boltsync/internal/core/domain"
)

func newStateService(t *testing.T) (*StateService, *memory.Sink, *memory.RunStore) {
	t.Helper()
	sink := memory.NewSink(testTables)
	runs := memory.NewRunStore()

	state := domain.NewSyncState()
	state.Table("cities").NextBatch = "b1"
	state.Table("job_events").EventToken = "t9"
	require.NoError(t, sink.SaveState(context.Background(), state))

	return NewStateService(testTables, sink, runs), sink, runs
}

func TestStateService_Show(t *testing.T) {
	svc, _, _ := newStateService(t)

	state, err := svc.Show(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"cities", "job_events"}, state.TableNames())
}

func TestStateService_Reset(t *testing.T) {
	t.Run("forgets one table", func(t *testing.T) {
		svc, sink, _ := newStateService(t)

		require.NoError(t, svc.Reset(context.Background(), "cities"))

		state, err := sink.LoadState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"job_events"}, state.TableNames())
	})

	t.Run("registered table without state", func(t *testing.T) {
		svc, _, _ := newStateService(t)
		assert.NoError(t, svc.Reset(context.Background(), "schedules"))
	})

	t.Run("unknown table", func(t *testing.T) {
		svc, _, _ := newStateService(t)
		err := svc.Reset(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrUnknownTable)
	})
}

func TestStateService_ResetAll(t *testing.T) {
	svc, sink, _ := newStateService(t)

	require.NoError(t, svc.ResetAll(context.Background()))

	state, err := sink.LoadState(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Tables)
}

func TestStateService_Import(t *testing.T) {
	t.Run("native document", func(t *testing.T) {
		svc, sink, _ := newStateService(t)
		doc := `{"v":1,"tables":{"schedules":{"next_batch":"s2","total_records":40}}}`

		require.NoError(t, svc.Import(context.Background(), []byte(doc)))

		state, err := sink.LoadState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"schedules"}, state.TableNames())
		assert.Equal(t, "s2", state.Tables["schedules"].NextBatch)
		assert.Equal(t, 40, state.Tables["schedules"].TotalRecords)
	})

	t.Run("flat document", func(t *testing.T) {
		svc, sink, _ := newStateService(t)
		doc := `{"job_events":{"event_token":"abc","pages_processed":3,"last_sync":1700000000.5}}`

		require.NoError(t, svc.Import(context.Background(), []byte(doc)))

		state, err := sink.LoadState(context.Background())
		require.NoError(t, err)
		ts := state.Tables["job_events"]
		assert.Equal(t, "abc", ts.EventToken)
		assert.Equal(t, 3, ts.PagesProcessed)
		assert.Equal(t, int64(1700000000), ts.LastSync.Unix())
	})

	t.Run("invalid document", func(t *testing.T) {
		svc, _, _ := newStateService(t)
		err := svc.Import(context.Background(), []byte(`not json`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestStateService_Runs(t *testing.T) {
	svc, _, runs := newStateService(t)
	ctx := context.Background()
	require.NoError(t, runs.SaveRun(ctx, &domain.SyncRun{ID: "a", StartedAt: time.Now()}))
	require.NoError(t, runs.SaveRun(ctx, &domain.SyncRun{ID: "b", StartedAt: time.Now()}))

	got, err := svc.Runs(ctx, 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	t.Run("without run store", func(t *testing.T) {
		svc := NewStateService(testTables, memory.NewSink(testTables), nil)
		got, err := svc.Runs(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
