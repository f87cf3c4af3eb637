package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestRunStore_ListRuns(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.SaveRun(ctx, &domain.SyncRun{ID: id, StartedAt: time.Now()}))
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := store.ListRuns(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-1", runs[2].ID)
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := store.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-2", runs[1].ID)
	})
}

func TestRunStore_SaveRun_CopiesTables(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.SyncRun{ID: "r", Tables: []domain.TableResult{{Table: "cities", Outcome: domain.OutcomeCompleted}}}
	require.NoError(t, store.SaveRun(ctx, run))
	run.Tables[0].Outcome = domain.OutcomeHardFailed

	runs, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, runs[0].Tables[0].Outcome)
}
