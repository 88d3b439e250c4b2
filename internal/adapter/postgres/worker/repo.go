// Package worker implements the Worker repository using PostgreSQL.
package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// Repo provides worker persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new worker repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const workerColumns = `id, account_id, name, email, role, active, created_at, updated_at`

const getWorkerSQL = `
SELECT ` + workerColumns + `
FROM workers
WHERE account_id = $1 AND id = $2`

const listWorkersSQL = `
SELECT ` + workerColumns + `
FROM workers
WHERE account_id = $1
ORDER BY name ASC`

const listActiveByIDsSQL = `
SELECT ` + workerColumns + `
FROM workers
WHERE account_id = $1 AND active AND id = ANY($2::uuid[])`

// GetByID returns a worker by primary key scoped to the account.
func (r *Repo) GetByID(ctx context.Context, accountID, workerID uuid.UUID) (domain.Worker, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getWorkerSQL, accountID, workerID)
	w, err := scanWorker(row)
	if err != nil {
		return domain.Worker{}, postgres.MapError(err, "worker", workerID)
	}

	return w, nil
}

// List returns all workers of the account ordered by name.
func (r *Repo) List(ctx context.Context, accountID uuid.UUID) ([]domain.Worker, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listWorkersSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	return scanWorkers(rows)
}

// ListActiveByIDs returns the active workers among the given IDs scoped to
// the account. Callers compare the result length against the input to detect
// unknown or inactive assignees.
func (r *Repo) ListActiveByIDs(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID) ([]domain.Worker, error) {
	if len(workerIDs) == 0 {
		return []domain.Worker{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	ids := make([]string, len(workerIDs))
	for i, id := range workerIDs {
		ids[i] = id.String()
	}

	rows, err := q.Query(ctx, listActiveByIDsSQL, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("list workers by ids: %w", err)
	}
	defer rows.Close()

	return scanWorkers(rows)
}

func scanWorkers(rows pgx.Rows) ([]domain.Worker, error) {
	workers := []domain.Worker{}
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workers: %w", err)
	}

	return workers, nil
}

func scanWorker(row pgx.Row) (domain.Worker, error) {
	var w domain.Worker
	err := row.Scan(
		&w.ID, &w.AccountID, &w.Name, &w.Email, &w.Role, &w.Active,
		&w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}
