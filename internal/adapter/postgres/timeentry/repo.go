// Package timeentry implements the time entry repository using PostgreSQL.
package timeentry

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

// Repo provides time entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new time entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryColumns = `id, account_id, worker_id, job_id, entry_type, status, started_at, ended_at,
       duration_minutes, billable, notes, clock_out_location, approved_by, approved_at,
       created_at, updated_at`

const getEntrySQL = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE account_id = $1 AND id = $2`

const getActiveByWorkerSQL = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE account_id = $1 AND worker_id = $2 AND ended_at IS NULL`

const listByWorkerSQL = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE account_id = $1 AND worker_id = $2 AND started_at >= $3 AND started_at < $4
ORDER BY started_at ASC`

const listOverlappingSQL = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE account_id = $1 AND worker_id = $2 AND id <> $3
  AND ended_at IS NOT NULL
  AND started_at < $5 AND ended_at > $4
ORDER BY started_at ASC`

const createEntrySQL = `
INSERT INTO time_entries (id, account_id, worker_id, job_id, entry_type, status, started_at,
                          ended_at, duration_minutes, billable, notes, clock_out_location,
                          created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`

const closeEntrySQL = `
UPDATE time_entries
SET ended_at = $3, duration_minutes = $4, clock_out_location = $5, notes = $6, updated_at = now()
WHERE account_id = $1 AND id = $2 AND ended_at IS NULL`

const updateEntrySQL = `
UPDATE time_entries
SET started_at = $3, ended_at = $4, duration_minutes = $5, billable = $6, notes = $7,
    status = 'pending', approved_by = NULL, approved_at = NULL, updated_at = now()
WHERE account_id = $1 AND id = $2`

const setApprovalSQL = `
UPDATE time_entries
SET status = $3, approved_by = $4, approved_at = $5, notes = $6, updated_at = now()
WHERE account_id = $1 AND id = $2 AND status = 'pending'`

const deleteEntrySQL = `
DELETE FROM time_entries WHERE account_id = $1 AND id = $2`

// GetByID returns a time entry by primary key scoped to the account.
func (r *Repo) GetByID(ctx context.Context, accountID, entryID uuid.UUID) (domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getEntrySQL, accountID, entryID)
	e, err := scanEntry(row)
	if err != nil {
		return domain.TimeEntry{}, postgres.MapError(err, "time entry", entryID)
	}

	return e, nil
}

// GetActiveByWorker returns the worker's running entry.
// Returns domain.ErrNotFound when the worker is not clocked in.
func (r *Repo) GetActiveByWorker(ctx context.Context, accountID, workerID uuid.UUID) (domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getActiveByWorkerSQL, accountID, workerID)
	e, err := scanEntry(row)
	if err != nil {
		return domain.TimeEntry{}, postgres.MapError(err, "time entry", workerID)
	}

	return e, nil
}

// ListByWorker returns the worker's entries started within [from, to).
func (r *Repo) ListByWorker(ctx context.Context, accountID, workerID uuid.UUID, from, to time.Time) ([]domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByWorkerSQL, accountID, workerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListOverlapping returns the worker's closed entries, other than excludeID,
// whose span overlaps [start, end). Used to validate edits of closed entries.
func (r *Repo) ListOverlapping(ctx context.Context, accountID, workerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listOverlappingSQL, accountID, workerID, excludeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list overlapping time entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Create inserts a time entry. A unique violation on the active-entry index
// surfaces as domain.ErrAlreadyExists; the service maps it to a conflict.
func (r *Repo) Create(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := q.Exec(ctx, createEntrySQL,
		e.ID, e.AccountID, e.WorkerID, e.JobID, string(e.EntryType), string(e.Status),
		e.StartedAt, e.EndedAt, e.DurationMinutes, e.Billable, e.Notes, e.ClockOutLocation, now,
	)
	if err != nil {
		return domain.TimeEntry{}, postgres.MapError(err, "time entry", e.ID)
	}

	return e, nil
}

// Close ends a running entry. Reports false when the entry was already
// closed (or does not exist).
func (r *Repo) Close(ctx context.Context, accountID, entryID uuid.UUID, endedAt time.Time, durationMinutes int, location, notes string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, closeEntrySQL, accountID, entryID, endedAt, durationMinutes, location, notes)
	if err != nil {
		return false, postgres.MapError(err, "time entry", entryID)
	}

	return tag.RowsAffected() == 1, nil
}

// Update rewrites the entry's span and resets it to pending, clearing any
// prior approval or rejection: an edited rejected entry is a resubmission.
// Open entries keep a nil end and duration. The service validates the span
// before calling.
func (r *Repo) Update(ctx context.Context, accountID, entryID uuid.UUID, startedAt time.Time, endedAt *time.Time, durationMinutes *int, billable bool, notes string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateEntrySQL, accountID, entryID, startedAt, endedAt, durationMinutes, billable, notes)
	if err != nil {
		return postgres.MapError(err, "time entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("time entry %s: %w", entryID, domain.ErrNotFound)
	}

	return nil
}

// SetApproval moves a pending entry to approved or rejected, rewriting the
// notes (the service appends a rejection reason). Reports false when the
// entry was not pending.
func (r *Repo) SetApproval(ctx context.Context, accountID, entryID uuid.UUID, status domain.TimeEntryStatus, approverID uuid.UUID, at time.Time, notes string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setApprovalSQL, accountID, entryID, string(status), approverID, at, notes)
	if err != nil {
		return false, postgres.MapError(err, "time entry", entryID)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete removes a time entry.
func (r *Repo) Delete(ctx context.Context, accountID, entryID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteEntrySQL, accountID, entryID)
	if err != nil {
		return postgres.MapError(err, "time entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("time entry %s: %w", entryID, domain.ErrNotFound)
	}

	return nil
}

func scanEntries(rows pgx.Rows) ([]domain.TimeEntry, error) {
	entries := []domain.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (domain.TimeEntry, error) {
	var (
		e         domain.TimeEntry
		entryType string
		status    string
	)

	err := row.Scan(
		&e.ID, &e.AccountID, &e.WorkerID, &e.JobID, &entryType, &status, &e.StartedAt, &e.EndedAt,
		&e.DurationMinutes, &e.Billable, &e.Notes, &e.ClockOutLocation, &e.ApprovedBy, &e.ApprovedAt,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	e.EntryType = domain.TimeEntryType(entryType)
	e.Status = domain.TimeEntryStatus(status)
	return e, nil
}
