package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fieldops-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount creates a tenant account and returns its ID.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO accounts (id, name) VALUES ($1, $2)`,
		id, "Test Account "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount: %v", err)
	}
	return id
}

// SeedClient creates a client under the given account.
func SeedClient(t *testing.T, pool *pgxpool.Pool, accountID uuid.UUID) domain.Client {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	client := domain.Client{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      "Test Client " + suffix,
		Email:     "client-" + suffix + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO clients (id, account_id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		client.ID, client.AccountID, client.Name, client.Email, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClient: %v", err)
	}
	return client
}

// SeedWorker creates a worker under the given account.
func SeedWorker(t *testing.T, pool *pgxpool.Pool, accountID uuid.UUID) domain.Worker {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	worker := domain.Worker{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      "Test Worker " + suffix,
		Email:     "worker-" + suffix + "@example.com",
		Role:      "worker",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO workers (id, account_id, name, email, role, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		worker.ID, worker.AccountID, worker.Name, worker.Email, worker.Role, worker.Active,
		worker.CreatedAt, worker.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorker: %v", err)
	}
	return worker
}

// SeedJob creates a scheduled job for the given account and client with the
// provided schedule bounds and assignees.
func SeedJob(t *testing.T, pool *pgxpool.Pool, accountID, clientID uuid.UUID, start, end time.Time, assigneeIDs []uuid.UUID) domain.Job {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := domain.Job{
		ID:             uuid.New(),
		AccountID:      accountID,
		ClientID:       clientID,
		Number:         "JOB-SEED-" + suffix,
		Title:          "Seed Job " + suffix,
		Status:         domain.JobStatusScheduled,
		Priority:       domain.JobPriorityNormal,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
		AssigneeIDs:    assigneeIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	assignees := make([]string, len(assigneeIDs))
	for i, id := range assigneeIDs {
		assignees[i] = id.String()
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO jobs (id, account_id, client_id, number, title, status, priority,
		                   scheduled_start, scheduled_end, assignee_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::uuid[], $11, $12)`,
		job.ID, job.AccountID, job.ClientID, job.Number, job.Title, string(job.Status),
		string(job.Priority), job.ScheduledStart, job.ScheduledEnd, assignees,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedJob: %v", err)
	}
	return job
}
