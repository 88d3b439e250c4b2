// Package quote implements the Quote repository using PostgreSQL.
//
// Line items live in their own table but are owned by the quote: they are
// inserted with it and replaced as a whole set, never patched row by row.
// Status changes use conditional UPDATEs on the current status so concurrent
// writers cannot both win.
package quote

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

// ExpiringQuote identifies a sent quote whose expiry date has passed.
type ExpiringQuote struct {
	ID        uuid.UUID
	AccountID uuid.UUID
}

// Repo provides quote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const quoteColumns = `id, account_id, client_id, number, title, description, address, status,
       tax_rate, discount_amount, subtotal, tax_amount, total, expiry_date,
       approval_signature, approval_ip, approved_at, decline_reason, declined_at,
       converted_job_id, created_at, updated_at, deleted_at`

const getQuoteSQL = `
SELECT ` + quoteColumns + `
FROM quotes
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const listQuotesSQL = `
SELECT ` + quoteColumns + `
FROM quotes
WHERE account_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC`

const createQuoteSQL = `
INSERT INTO quotes (id, account_id, client_id, number, title, description, address, status,
                    tax_rate, discount_amount, subtotal, tax_amount, total, expiry_date,
                    created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`

const updateQuoteSQL = `
UPDATE quotes
SET title = $3, description = $4, address = $5, tax_rate = $6, discount_amount = $7,
    subtotal = $8, tax_amount = $9, total = $10, expiry_date = $11, updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const setStatusSQL = `
UPDATE quotes
SET status = $4, updated_at = now()
WHERE account_id = $1 AND id = $2 AND status = $3 AND deleted_at IS NULL`

const approveQuoteSQL = `
UPDATE quotes
SET status = 'approved', approval_signature = $3, approval_ip = $4, approved_at = $5,
    updated_at = now()
WHERE account_id = $1 AND id = $2 AND status = 'sent' AND deleted_at IS NULL`

const declineQuoteSQL = `
UPDATE quotes
SET status = 'declined', decline_reason = $3, declined_at = $4, updated_at = now()
WHERE account_id = $1 AND id = $2 AND status = 'sent' AND deleted_at IS NULL`

const setConvertedSQL = `
UPDATE quotes
SET status = 'converted', converted_job_id = $3, updated_at = now()
WHERE account_id = $1 AND id = $2 AND status = 'approved'
  AND converted_job_id IS NULL AND deleted_at IS NULL`

const listExpiringSQL = `
SELECT id, account_id
FROM quotes
WHERE status = 'sent' AND expiry_date < $1::date AND deleted_at IS NULL
ORDER BY expiry_date ASC
LIMIT $2`

const markExpiredSQL = `
UPDATE quotes
SET status = 'expired', updated_at = now()
WHERE id = $1 AND status = 'sent' AND deleted_at IS NULL`

const softDeleteQuoteSQL = `
UPDATE quotes
SET deleted_at = now(), updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const insertItemSQL = `
INSERT INTO quote_line_items (id, quote_id, item_type, name, quantity, unit_price, taxable,
                              total_price, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const deleteItemsSQL = `
DELETE FROM quote_line_items WHERE quote_id = $1`

const listItemsSQL = `
SELECT id, quote_id, item_type, name, quantity, unit_price, taxable, total_price, sort_order
FROM quote_line_items
WHERE quote_id = $1
ORDER BY sort_order ASC`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a quote with its line items, scoped to the account.
func (r *Repo) GetByID(ctx context.Context, accountID, quoteID uuid.UUID) (domain.Quote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getQuoteSQL, accountID, quoteID)
	quote, err := scanQuote(row)
	if err != nil {
		return domain.Quote{}, postgres.MapError(err, "quote", quoteID)
	}

	quote.Items, err = r.listItems(ctx, q, quote.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// List returns the account's quotes without line items, newest first.
func (r *Repo) List(ctx context.Context, accountID uuid.UUID) ([]domain.Quote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listQuotesSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	quotes := []domain.Quote{}
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("list quotes: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	return quotes, nil
}

// ListExpiring returns sent quotes whose expiry date is before asOf's date,
// across all accounts. Used by the expiry sweep.
func (r *Repo) ListExpiring(ctx context.Context, asOf time.Time, limit int) ([]ExpiringQuote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listExpiringSQL, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring quotes: %w", err)
	}
	defer rows.Close()

	quotes := []ExpiringQuote{}
	for rows.Next() {
		var eq ExpiringQuote
		if err := rows.Scan(&eq.ID, &eq.AccountID); err != nil {
			return nil, fmt.Errorf("scan expiring quote: %w", err)
		}
		quotes = append(quotes, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expiring quotes: %w", err)
	}

	return quotes, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a quote and its line items. The caller allocates the number
// and runs the whole thing inside one transaction.
func (r *Repo) Create(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	quote.ID = uuid.New()
	quote.CreatedAt = now
	quote.UpdatedAt = now

	_, err := q.Exec(ctx, createQuoteSQL,
		quote.ID, quote.AccountID, quote.ClientID, quote.Number, quote.Title, quote.Description,
		quote.Address, string(quote.Status), quote.TaxRate, quote.DiscountAmount,
		quote.Subtotal, quote.TaxAmount, quote.Total, quote.ExpiryDate, now,
	)
	if err != nil {
		return domain.Quote{}, postgres.MapError(err, "quote", quote.ID)
	}

	quote.Items, err = r.insertItems(ctx, q, quote.ID, quote.Items)
	if err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// Update overwrites the quote's editable header fields and totals.
// Line items are replaced separately via ReplaceItems in the same transaction.
func (r *Repo) Update(ctx context.Context, quote domain.Quote) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateQuoteSQL,
		quote.AccountID, quote.ID, quote.Title, quote.Description, quote.Address,
		quote.TaxRate, quote.DiscountAmount, quote.Subtotal, quote.TaxAmount, quote.Total,
		quote.ExpiryDate,
	)
	if err != nil {
		return postgres.MapError(err, "quote", quote.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s: %w", quote.ID, domain.ErrNotFound)
	}

	return nil
}

// ReplaceItems deletes the quote's line items and inserts the new set.
func (r *Repo) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []domain.QuoteLineItem) ([]domain.QuoteLineItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteItemsSQL, quoteID); err != nil {
		return nil, postgres.MapError(err, "quote", quoteID)
	}

	return r.insertItems(ctx, q, quoteID, items)
}

// SetStatus moves the quote from one status to another. Reports false when
// the quote was not in the expected status (or does not exist).
func (r *Repo) SetStatus(ctx context.Context, accountID, quoteID uuid.UUID, from, to domain.QuoteStatus) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setStatusSQL, accountID, quoteID, string(from), string(to))
	if err != nil {
		return false, postgres.MapError(err, "quote", quoteID)
	}

	return tag.RowsAffected() == 1, nil
}

// Approve records approval on a sent quote. Reports false when the quote was
// not in the sent status.
func (r *Repo) Approve(ctx context.Context, accountID, quoteID uuid.UUID, signature, ip string, at time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, approveQuoteSQL, accountID, quoteID, signature, ip, at)
	if err != nil {
		return false, postgres.MapError(err, "quote", quoteID)
	}

	return tag.RowsAffected() == 1, nil
}

// Decline records a decline on a sent quote. Reports false when the quote
// was not in the sent status.
func (r *Repo) Decline(ctx context.Context, accountID, quoteID uuid.UUID, reason string, at time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, declineQuoteSQL, accountID, quoteID, reason, at)
	if err != nil {
		return false, postgres.MapError(err, "quote", quoteID)
	}

	return tag.RowsAffected() == 1, nil
}

// SetConverted marks an approved quote as converted and links the job.
// Reports false when the quote was not approved or already has a job.
func (r *Repo) SetConverted(ctx context.Context, accountID, quoteID, jobID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setConvertedSQL, accountID, quoteID, jobID)
	if err != nil {
		return false, postgres.MapError(err, "quote", quoteID)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkExpired moves a sent quote to expired. Reports false when the quote
// changed status since it was listed, which the sweep treats as already
// handled.
func (r *Repo) MarkExpired(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markExpiredSQL, quoteID)
	if err != nil {
		return false, postgres.MapError(err, "quote", quoteID)
	}

	return tag.RowsAffected() == 1, nil
}

// SoftDelete marks the quote as deleted.
func (r *Repo) SoftDelete(ctx context.Context, accountID, quoteID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteQuoteSQL, accountID, quoteID)
	if err != nil {
		return postgres.MapError(err, "quote", quoteID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s: %w", quoteID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Line item helpers
// ---------------------------------------------------------------------------

func (r *Repo) insertItems(ctx context.Context, q postgres.Querier, quoteID uuid.UUID, items []domain.QuoteLineItem) ([]domain.QuoteLineItem, error) {
	out := make([]domain.QuoteLineItem, len(items))
	for i, item := range items {
		item.ID = uuid.New()
		item.QuoteID = quoteID
		item.SortOrder = i

		_, err := q.Exec(ctx, insertItemSQL,
			item.ID, item.QuoteID, item.ItemType, item.Name, item.Quantity, item.UnitPrice,
			item.Taxable, item.TotalPrice, item.SortOrder,
		)
		if err != nil {
			return nil, postgres.MapError(err, "quote line item", item.ID)
		}
		out[i] = item
	}

	return out, nil
}

func (r *Repo) listItems(ctx context.Context, q postgres.Querier, quoteID uuid.UUID) ([]domain.QuoteLineItem, error) {
	rows, err := q.Query(ctx, listItemsSQL, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote line items: %w", err)
	}
	defer rows.Close()

	items := []domain.QuoteLineItem{}
	for rows.Next() {
		var item domain.QuoteLineItem
		if err := rows.Scan(
			&item.ID, &item.QuoteID, &item.ItemType, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.Taxable, &item.TotalPrice, &item.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("scan quote line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote line items: %w", err)
	}

	return items, nil
}

func scanQuote(row pgx.Row) (domain.Quote, error) {
	var (
		q      domain.Quote
		status string
	)

	err := row.Scan(
		&q.ID, &q.AccountID, &q.ClientID, &q.Number, &q.Title, &q.Description, &q.Address, &status,
		&q.TaxRate, &q.DiscountAmount, &q.Subtotal, &q.TaxAmount, &q.Total, &q.ExpiryDate,
		&q.ApprovalSignature, &q.ApprovalIP, &q.ApprovedAt, &q.DeclineReason, &q.DeclinedAt,
		&q.ConvertedJobID, &q.CreatedAt, &q.UpdatedAt, &q.DeletedAt,
	)
	if err != nil {
		return domain.Quote{}, err
	}

	q.Status = domain.QuoteStatus(status)
	return q, nil
}
