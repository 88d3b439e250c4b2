//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/testhelper"
)

// TestJobLifecycle walks a job from creation through completion.
func TestJobLifecycle(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	clientID := e.createClient(t)
	worker := testhelper.SeedWorker(t, e.pool, e.accountID)

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	end := start.Add(2 * time.Hour)

	status, job := e.do(t, http.MethodPost, "/v1/jobs", map[string]any{
		"client_id":       clientID,
		"title":           "Annual boiler service",
		"priority":        "high",
		"scheduled_start": start.Format(time.RFC3339),
		"scheduled_end":   end.Format(time.RFC3339),
		"assignee_ids":    []string{worker.ID.String()},
		"estimated_value": 180.00,
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", job)
	jobID := job["id"].(string)

	assert.Equal(t, "scheduled", job["status"])
	assert.Equal(t, "JOB-0001", job["number"])

	// completed is never reachable through the generic status endpoint.
	status, body := e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/status", map[string]any{
		"status": "completed",
	})
	require.Equal(t, http.StatusConflict, status, "body: %v", body)

	status, body = e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/status", map[string]any{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "in_progress", body["status"])
	assert.NotEmpty(t, body["actual_start"])

	status, body = e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/complete", map[string]any{
		"signature":   "customer sig",
		"notes":       "replaced valve",
		"actual_cost": 195.50,
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "completed", body["status"])
	assert.NotEmpty(t, body["actual_end"])
	assert.Equal(t, "replaced valve", body["completion_notes"])

	// Completing twice conflicts; so does deleting a completed job.
	status, body = e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/complete", map[string]any{})
	require.Equal(t, http.StatusConflict, status, "body: %v", body)

	status, body = e.do(t, http.MethodDelete, "/v1/jobs/"+jobID, nil)
	require.Equal(t, http.StatusConflict, status, "body: %v", body)
}

func TestJobPhotos(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	clientID := e.createClient(t)

	status, job := e.do(t, http.MethodPost, "/v1/jobs", map[string]any{
		"client_id": clientID,
		"title":     "Fence repair",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", job)
	jobID := job["id"].(string)

	status, photo := e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/photos", map[string]any{
		"url":     "https://cdn.example.com/before.jpg",
		"caption": "before",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", photo)
	assert.EqualValues(t, 0, photo["sort_order"])

	status, photo2 := e.do(t, http.MethodPost, "/v1/jobs/"+jobID+"/photos", map[string]any{
		"url": "https://cdn.example.com/after.jpg",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", photo2)
	assert.EqualValues(t, 1, photo2["sort_order"])

	status, photos := e.doList(t, http.MethodGet, "/v1/jobs/"+jobID+"/photos")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, photos, 2)

	status, _ = e.do(t, http.MethodDelete, "/v1/jobs/"+jobID+"/photos/"+photo["id"].(string), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, photos = e.doList(t, http.MethodGet, "/v1/jobs/"+jobID+"/photos")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, photos, 1)
}

func TestJobValidationErrors(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)

	status, body := e.do(t, http.MethodPost, "/v1/jobs", map[string]any{
		"title": "No client",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, "body: %v", body)
	require.NotEmpty(t, body["fields"])
}
