//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/testhelper"
)

// TestClockInOutAndApprove covers the happy timesheet path.
func TestClockInOutAndApprove(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	worker := testhelper.SeedWorker(t, e.pool, e.accountID)

	status, entry := e.do(t, http.MethodPost, "/v1/time-entries/clock-in", map[string]any{
		"worker_id": worker.ID.String(),
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", entry)
	entryID := entry["id"].(string)

	assert.Equal(t, "pending", entry["status"])
	assert.Equal(t, true, entry["billable"])
	assert.Nil(t, entry["ended_at"])

	// A second clock-in while running conflicts.
	status, body := e.do(t, http.MethodPost, "/v1/time-entries/clock-in", map[string]any{
		"worker_id": worker.ID.String(),
	})
	require.Equal(t, http.StatusConflict, status, "body: %v", body)

	// Approving a running entry is a validation error.
	status, body = e.do(t, http.MethodPost, "/v1/time-entries/"+entryID+"/approve", nil)
	require.Equal(t, http.StatusUnprocessableEntity, status, "body: %v", body)

	status, body = e.do(t, http.MethodPost, "/v1/time-entries/"+entryID+"/clock-out", map[string]any{
		"location": "52.52,13.41",
		"notes":    "done",
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.NotEmpty(t, body["ended_at"])
	assert.NotNil(t, body["duration_minutes"])

	status, body = e.do(t, http.MethodPost, "/v1/time-entries/"+entryID+"/approve", nil)
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, e.userID.String(), body["approved_by"])

	// Approved entries are immutable.
	status, body = e.do(t, http.MethodPatch, "/v1/time-entries/"+entryID, map[string]any{
		"billable": false,
	})
	require.Equal(t, http.StatusConflict, status, "body: %v", body)
}

func TestRejectAppendsReason(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	worker := testhelper.SeedWorker(t, e.pool, e.accountID)

	status, entry := e.do(t, http.MethodPost, "/v1/time-entries/clock-in", map[string]any{
		"worker_id": worker.ID.String(),
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", entry)
	entryID := entry["id"].(string)

	status, body := e.do(t, http.MethodPost, "/v1/time-entries/"+entryID+"/clock-out", map[string]any{
		"notes": "afternoon shift",
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	status, body = e.do(t, http.MethodPost, "/v1/time-entries/"+entryID+"/reject", map[string]any{
		"reason": "wrong job code",
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "rejected", body["status"])
	assert.Equal(t, "afternoon shift\nrejected: wrong job code", body["notes"])
}
