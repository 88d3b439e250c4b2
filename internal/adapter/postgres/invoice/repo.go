// Package invoice implements the invoice lookup repository using PostgreSQL.
// Invoices are written by a downstream billing system; this side only needs
// to know whether a job is referenced before allowing its deletion.
package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/dkoval/fieldops-backend/internal/adapter/postgres"
)

// Repo provides read access to the invoice ledger.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new invoice repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existsForJobSQL = `
SELECT EXISTS (SELECT 1 FROM invoices WHERE account_id = $1 AND job_id = $2)`

// ExistsForJob reports whether any invoice references the job.
func (r *Repo) ExistsForJob(ctx context.Context, accountID, jobID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, existsForJobSQL, accountID, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check invoices for job %s: %w", jobID, err)
	}

	return exists, nil
}
