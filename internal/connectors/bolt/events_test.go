package bolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestNormalise_JobEvent(t *testing.T) {
	t.Run("composite key", func(t *testing.T) {
		rec, err := normalise(t, "job_events", `{"id": 5, "created_at": "2024-01-02T03:04:05", "event": "update", "job": {"id": 9}}`)

		require.NoError(t, err)
		assert.Equal(t, "5_9_update_20240102T030405", rec["event_id"])
		assert.Equal(t, int64(9), rec["job_id"])
		assert.Nil(t, rec["changes"])
	})

	t.Run("flattens job and encodes changes", func(t *testing.T) {
		rec, err := normalise(t, "job_events", `{
			"id": 1,
			"event": "create",
			"author": "ann",
			"created_at": "2024-05-06 07:08:09",
			"changes": {"lot": ["1", "2"]},
			"job": {"id": 2, "lot": " ", "active": true, "extras": {"a": 1}}
		}`)

		require.NoError(t, err)
		assert.Equal(t, "1_2_create_20240506070809", rec["event_id"])
		assert.Equal(t, `{"lot":["1","2"]}`, rec["changes"])
		assert.Nil(t, rec["job_lot"])
		assert.Equal(t, true, rec["job_active"])
		assert.Equal(t, `{"a":1}`, rec["job_extras"])
		assert.Equal(t, "ann", rec["author"])
	})

	t.Run("missing job id drops", func(t *testing.T) {
		_, err := normalise(t, "job_events", `{"id": 1, "event": "create", "created_at": "2024-01-01"}`)
		assert.ErrorIs(t, err, domain.ErrRecordDropped)
	})

	t.Run("missing event drops", func(t *testing.T) {
		_, err := normalise(t, "job_events", `{"id": 1, "created_at": "2024-01-01", "job": {"id": 2}}`)
		assert.ErrorIs(t, err, domain.ErrRecordDropped)
	})
}

func TestNormalise_WorkOrderEvent(t *testing.T) {
	t.Run("keys on the work order id", func(t *testing.T) {
		rec, err := normalise(t, "work_order_events", `{
			"event": "update",
			"created_at": "2024-01-02T03:04:05Z",
			"work_order": {"id": 77, "notes": "", "labor_total": 12.25}
		}`)

		require.NoError(t, err)
		assert.Equal(t, "77_update_20240102T030405Z", rec["event_id"])
		assert.Nil(t, rec["work_order_notes"])
		assert.Equal(t, 12.25, rec["work_order_labor_total"])
	})

	t.Run("missing work order drops", func(t *testing.T) {
		_, err := normalise(t, "work_order_events", `{"event": "update", "created_at": "2024-01-02"}`)
		assert.ErrorIs(t, err, domain.ErrRecordDropped)
	})
}

func TestNormalise_StatusEvent(t *testing.T) {
	t.Run("keys on the status work order", func(t *testing.T) {
		rec, err := normalise(t, "work_order_status_events", `{
			"id": 3,
			"event": "update",
			"created_at": "2024-01-02T03:04:05",
			"status": {"id": 4, "work_order_id": 8, "description": "", "status": true}
		}`)

		require.NoError(t, err)
		assert.Equal(t, "3_8_update_20240102T030405", rec["event_id"])
		assert.Equal(t, "", rec["status_description"])
		assert.Equal(t, true, rec["status_status"])
		assert.Equal(t, int64(4), rec["status_id"])
	})

	t.Run("missing status drops", func(t *testing.T) {
		_, err := normalise(t, "work_order_status_events", `{"id": 3, "event": "update", "created_at": "x"}`)
		assert.ErrorIs(t, err, domain.ErrRecordDropped)
	})
}

func TestEventID(t *testing.T) {
	assert.Equal(t, "1_2_ab_20240102T0304", EventID("1", "2", "a b", "2024-01-02T03:04"))
	assert.Equal(t, "x_y", EventID("x", "y"))
}
