package invoice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/invoice"
	"github.com/dkoval/fieldops-backend/internal/adapter/postgres/testhelper"
)

func TestRepo_ExistsForJob(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := invoice.New(pool)
	ctx := context.Background()

	accountID := testhelper.SeedAccount(t, pool)
	client := testhelper.SeedClient(t, pool, accountID)
	job := testhelper.SeedJob(t, pool, accountID, client.ID,
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), nil)

	exists, err := repo.ExistsForJob(ctx, accountID, job.ID)
	if err != nil {
		t.Fatalf("ExistsForJob: unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected no invoices for fresh job")
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO invoices (id, account_id, job_id, number, total) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), accountID, job.ID, "INV-"+uuid.New().String()[:8], 100.0,
	)
	if err != nil {
		t.Fatalf("insert invoice: %v", err)
	}

	exists, err = repo.ExistsForJob(ctx, accountID, job.ID)
	if err != nil {
		t.Fatalf("ExistsForJob: unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected invoice to be found")
	}
}
