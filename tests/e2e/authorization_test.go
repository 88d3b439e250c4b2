//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/testhelper"
)

func TestMissingTokenRejected(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)

	status, _ := e.doAs(t, "", http.MethodGet, "/v1/jobs", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

// TestTenantIsolation verifies that another account's entities read as
// not found, indistinguishable from truly absent rows.
func TestTenantIsolation(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	clientID := e.createClient(t)

	status, job := e.do(t, http.MethodPost, "/v1/jobs", map[string]any{
		"client_id": clientID,
		"title":     "Private job",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", job)

	otherAccount := testhelper.SeedAccount(t, e.pool)
	otherToken := mintToken(t, otherAccount, uuid.New())

	status, _ = e.doAs(t, otherToken, http.MethodGet, "/v1/jobs/"+job["id"].(string), nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = e.doAs(t, otherToken, http.MethodDelete, "/v1/clients/"+clientID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpointsUnauthenticated(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)

	status, body := e.doAs(t, "", http.MethodGet, "/live", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	status, _ = e.doAs(t, "", http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, status)
}
