// Package sequence implements the per-tenant business number allocator.
//
// Numbers are allocated from a (account_id, document_type) counter row that
// is read FOR UPDATE, so two transactions allocating the same sequence
// serialize on the row lock and can never observe the same counter value.
// The allocator must be called inside the transaction that inserts the
// numbered entity: a rollback releases the lock and may leave a gap, which
// is acceptable.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// Repo allocates sequential business numbers backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sequence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const lockRowSQL = `
SELECT prefix, counter FROM sequences
WHERE account_id = $1 AND document_type = $2
FOR UPDATE`

const seedRowSQL = `
INSERT INTO sequences (account_id, document_type, prefix, counter)
VALUES ($1, $2, $3, 0)
ON CONFLICT (account_id, document_type) DO NOTHING`

const bumpCounterSQL = `
UPDATE sequences SET counter = $3, updated_at = now()
WHERE account_id = $1 AND document_type = $2`

// Next locks the counter row for (accountID, docType), increments it, and
// returns the formatted number (e.g. "JOB-0042"). The row is seeded with
// the document type's default prefix on first use.
func (r *Repo) Next(ctx context.Context, accountID uuid.UUID, docType domain.DocumentType) (string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	prefix, counter, err := lockRow(ctx, q, accountID, docType)
	if errors.Is(err, pgx.ErrNoRows) {
		// First allocation for this (account, type): seed, then lock.
		// ON CONFLICT DO NOTHING makes the seed safe against a concurrent
		// first allocation; the second SELECT then blocks on its lock.
		if _, seedErr := q.Exec(ctx, seedRowSQL, accountID, docType, docType.DefaultPrefix()); seedErr != nil {
			return "", postgres.MapError(seedErr, "sequence", accountID)
		}
		prefix, counter, err = lockRow(ctx, q, accountID, docType)
	}
	if err != nil {
		return "", postgres.MapError(err, "sequence", accountID)
	}

	counter++
	if _, err := q.Exec(ctx, bumpCounterSQL, accountID, docType, counter); err != nil {
		return "", postgres.MapError(err, "sequence", accountID)
	}

	return fmt.Sprintf("%s-%04d", prefix, counter), nil
}

func lockRow(ctx context.Context, q postgres.Querier, accountID uuid.UUID, docType domain.DocumentType) (string, int64, error) {
	var (
		prefix  string
		counter int64
	)
	err := q.QueryRow(ctx, lockRowSQL, accountID, docType).Scan(&prefix, &counter)
	return prefix, counter, err
}
