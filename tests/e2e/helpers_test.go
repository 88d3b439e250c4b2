//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/fieldops-backend/internal/adapter/invoicing"
	"github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	clientrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/client"
	invoicerepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/invoice"
	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	jobphotorepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/jobphoto"
	quoterepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/quote"
	sequencerepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/sequence"
	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/testhelper"
	timeentryrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/timeentry"
	workerrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/worker"
	"github.com/dkoval/fieldops-backend/internal/config"
	clientsvc "github.com/dkoval/fieldops-backend/internal/service/client"
	jobsvc "github.com/dkoval/fieldops-backend/internal/service/job"
	quotesvc "github.com/dkoval/fieldops-backend/internal/service/quote"
	timesheetsvc "github.com/dkoval/fieldops-backend/internal/service/timesheet"
	"github.com/dkoval/fieldops-backend/internal/transport/middleware"
	"github.com/dkoval/fieldops-backend/internal/transport/rest"
	"github.com/dkoval/fieldops-backend/pkg/clockutil"
)

const (
	testJWTSecret = "e2e-secret-key-with-enough-length-0123456789"
	testJWTIssuer = "fieldops"
)

// env holds everything a workflow test needs to drive the API.
type env struct {
	server *httptest.Server
	pool   *pgxpool.Pool

	accountID uuid.UUID
	userID    uuid.UUID
	token     string
}

// setupEnv brings up the full HTTP stack against a migrated database and
// seeds one account with an acting user token.
func setupEnv(t *testing.T) *env {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{JWTSecret: testJWTSecret, JWTIssuer: testJWTIssuer}
	cfg.Server.RateLimitPerMinute = 10000
	cfg.CORS = config.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowedHeaders: "Authorization,Content-Type",
	}
	cfg.Workflow = config.WorkflowConfig{
		MaxAssigneesPerJob:   10,
		MaxPhotosPerJob:      30,
		MaxLineItemsPerQuote: 100,
		QuoteExpiryDays:      30,
		ExpireSweepBatchSize: 500,
		MaxTimeEntryHours:    24,
	}

	tx := postgres.NewTxManager(pool)
	clock := clockutil.System{}

	clients := clientrepo.New(pool)
	workers := workerrepo.New(pool)
	jobs := jobrepo.New(pool)
	numbers := sequencerepo.New(pool)
	quotes := quoterepo.New(pool)

	jobService := jobsvc.NewService(log, jobs, clients, workers, jobphotorepo.New(pool),
		quotes, invoicerepo.New(pool), numbers, invoicing.NewNotifier(log), tx, clock, cfg.Workflow)
	quoteService := quotesvc.NewService(log, quotes, clients, numbers, jobService, tx, clock, cfg.Workflow)
	timesheetService := timesheetsvc.NewService(log, timeentryrepo.New(pool), workers, jobs, clock, cfg.Workflow)
	clientService := clientsvc.NewService(log, clients)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	router := rest.NewRouter(log, cfg, limiter, rest.Handlers{
		Health:      rest.NewHealthHandler(pool, "e2e"),
		Clients:     rest.NewClientHandler(log, clientService, jobService),
		Jobs:        rest.NewJobHandler(log, jobService),
		Quotes:      rest.NewQuoteHandler(log, quoteService),
		TimeEntries: rest.NewTimeEntryHandler(log, timesheetService),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	accountID := testhelper.SeedAccount(t, pool)
	// The acting user is a worker of the account; approvals reference it.
	userID := testhelper.SeedWorker(t, pool, accountID).ID

	return &env{
		server:    server,
		pool:      pool,
		accountID: accountID,
		userID:    userID,
		token:     mintToken(t, accountID, userID),
	}
}

func mintToken(t *testing.T, accountID, userID uuid.UUID) string {
	t.Helper()

	claims := middleware.Claims{
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    testJWTIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// do sends a JSON request with the env's token and decodes the JSON
// response body (nil for 204s).
func (e *env) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	return e.doAs(t, e.token, method, path, body)
}

func (e *env) doAs(t *testing.T, token, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp.StatusCode, decoded
}

// doList is like do for endpoints returning JSON arrays.
func (e *env) doList(t *testing.T, method, path string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp.StatusCode, decoded
}

// createClient makes a client over the API and returns its ID.
func (e *env) createClient(t *testing.T) string {
	t.Helper()

	status, body := e.do(t, http.MethodPost, "/v1/clients", map[string]any{
		"name":  "Acme Plumbing",
		"email": fmt.Sprintf("acme-%s@example.com", uuid.NewString()[:8]),
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	return body["id"].(string)
}
