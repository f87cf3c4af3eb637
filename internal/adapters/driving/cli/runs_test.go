package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestRunsCmd_Empty(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestRunsCmd_ListsRuns(t *testing.T) {
	_, state, _ := setupServices(t)
	failed := *sampleRun()
	failed.ID = "run-2"
	failed.Tables = append([]domain.TableResult(nil), failed.Tables...)
	failed.Tables[0].Outcome = domain.OutcomeHardFailed
	state.runs = []domain.SyncRun{failed, *sampleRun()}

	out, err := execute(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "[cities]")
}

func TestRunsCmd_Limit(t *testing.T) {
	_, state, _ := setupServices(t)
	second := *sampleRun()
	second.ID = "run-2"
	state.runs = []domain.SyncRun{second, *sampleRun()}

	out, err := execute(t, "runs", "--limit", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "run-2")
	assert.NotContains(t, out, "run-1")
}

func TestRunsCmd_Error(t *testing.T) {
	_, state, _ := setupServices(t)
	state.err = errMock

	_, err := execute(t, "runs")

	require.Error(t, err)
	assert.ErrorIs(t, err, errMock)
}
