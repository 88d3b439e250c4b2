// Package client implements the Client repository using PostgreSQL.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// Repo provides client persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const clientColumns = `id, account_id, name, email, phone, address, notes, created_at, updated_at, deleted_at`

const getClientSQL = `
SELECT ` + clientColumns + `
FROM clients
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const listClientsSQL = `
SELECT ` + clientColumns + `
FROM clients
WHERE account_id = $1 AND deleted_at IS NULL
ORDER BY name ASC`

const createClientSQL = `
INSERT INTO clients (id, account_id, name, email, phone, address, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

const updateClientSQL = `
UPDATE clients
SET name = $3, email = $4, phone = $5, address = $6, notes = $7, updated_at = $8
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const softDeleteClientSQL = `
UPDATE clients
SET deleted_at = now(), updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

// GetByID returns a client by primary key scoped to the account.
func (r *Repo) GetByID(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getClientSQL, accountID, clientID)
	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, postgres.MapError(err, "client", clientID)
	}

	return c, nil
}

// List returns all non-deleted clients of the account ordered by name.
func (r *Repo) List(ctx context.Context, accountID uuid.UUID) ([]domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listClientsSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

// Create inserts a new client. A duplicate email within the account results
// in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := q.Exec(ctx, createClientSQL,
		c.ID, c.AccountID, c.Name, c.Email, c.Phone, c.Address, c.Notes, now,
	)
	if err != nil {
		return domain.Client{}, postgres.MapError(err, "client", c.ID)
	}

	return c, nil
}

// Update overwrites the client's editable fields.
// Returns domain.ErrNotFound if the client does not exist in the account.
func (r *Repo) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	tag, err := q.Exec(ctx, updateClientSQL,
		c.AccountID, c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return domain.Client{}, postgres.MapError(err, "client", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, domain.ErrNotFound)
	}

	return c, nil
}

// SoftDelete marks the client as deleted.
func (r *Repo) SoftDelete(ctx context.Context, accountID, clientID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteClientSQL, accountID, clientID)
	if err != nil {
		return postgres.MapError(err, "client", clientID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
	}

	return nil
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	return c, err
}
