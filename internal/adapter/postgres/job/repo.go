// Package job implements the Job repository using PostgreSQL.
// Fixed-shape queries use raw SQL; the partial update is built with squirrel.
package job

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// UpdateParams holds the optional fields of a generic job update.
// Nil fields are left untouched.
type UpdateParams struct {
	Title          *string
	Description    *string
	Address        *string
	Priority       *domain.JobPriority
	EstimatedValue *float64
}

// ScheduleParams holds the schedule fields set together by a reschedule.
type ScheduleParams struct {
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
}

// StatusParams holds everything a status transition may write alongside the
// new status. The service computes the values; nil pointers clear nothing
// and are written as NULL only where the column is nullable.
type StatusParams struct {
	Status              domain.JobStatus
	ActualStart         *time.Time
	ActualEnd           *time.Time
	ActualCost          *float64
	CompletionNotes     string
	CompletionSignature string
}

// Repo provides job persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new job repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const jobColumns = `id, account_id, client_id, quote_id, parent_job_id, number, title, description,
       address, status, priority, scheduled_start, scheduled_end, actual_start, actual_end,
       assignee_ids::text[], estimated_value, actual_cost, completion_notes, completion_signature,
       created_at, updated_at, deleted_at`

const getJobSQL = `
SELECT ` + jobColumns + `
FROM jobs
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const listJobsByClientSQL = `
SELECT ` + jobColumns + `
FROM jobs
WHERE account_id = $1 AND client_id = $2 AND deleted_at IS NULL
ORDER BY created_at DESC`

const createJobSQL = `
INSERT INTO jobs (id, account_id, client_id, quote_id, parent_job_id, number, title, description,
                  address, status, priority, scheduled_start, scheduled_end, assignee_ids,
                  estimated_value, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::uuid[], $15, $16, $16)`

const updateScheduleSQL = `
UPDATE jobs
SET scheduled_start = $3, scheduled_end = $4, updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const updateAssigneesSQL = `
UPDATE jobs
SET assignee_ids = $3::uuid[], updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const updateStatusSQL = `
UPDATE jobs
SET status = $3, actual_start = $4, actual_end = $5, actual_cost = $6,
    completion_notes = $7, completion_signature = $8, updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

const softDeleteJobSQL = `
UPDATE jobs
SET deleted_at = now(), updated_at = now()
WHERE account_id = $1 AND id = $2 AND deleted_at IS NULL`

// The window check matches the in-memory overlap rule: an existing schedule
// conflicts when it starts before the window ends and ends after it starts.
const listAssignedInWindowSQL = `
SELECT ` + jobColumns + `
FROM jobs
WHERE account_id = $1
  AND deleted_at IS NULL
  AND id <> $2
  AND status NOT IN ('completed', 'cancelled')
  AND assignee_ids && $3::uuid[]
  AND scheduled_start < $5
  AND scheduled_end > $4
ORDER BY scheduled_start ASC`

// GetByID returns a job by primary key scoped to the account.
// Soft-deleted jobs are not found.
func (r *Repo) GetByID(ctx context.Context, accountID, jobID uuid.UUID) (domain.Job, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getJobSQL, accountID, jobID)
	j, err := scanJob(row)
	if err != nil {
		return domain.Job{}, postgres.MapError(err, "job", jobID)
	}

	return j, nil
}

// ListByClient returns the client's jobs, newest first.
func (r *Repo) ListByClient(ctx context.Context, accountID, clientID uuid.UUID) ([]domain.Job, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listJobsByClientSQL, accountID, clientID)
	if err != nil {
		return nil, fmt.Errorf("list jobs by client: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// List returns the account's jobs, optionally filtered by status,
// newest first.
func (r *Repo) List(ctx context.Context, accountID uuid.UUID, status *domain.JobStatus) ([]domain.Job, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := psql.Select(
		"id", "account_id", "client_id", "quote_id", "parent_job_id", "number", "title", "description",
		"address", "status", "priority", "scheduled_start", "scheduled_end", "actual_start", "actual_end",
		"assignee_ids::text[]", "estimated_value", "actual_cost", "completion_notes", "completion_signature",
		"created_at", "updated_at", "deleted_at",
	).
		From("jobs").
		Where(sq.Eq{"account_id": accountID}).
		Where("deleted_at IS NULL").
		OrderBy("created_at DESC")
	if status != nil {
		query = query.Where(sq.Eq{"status": string(*status)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list jobs query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// ListAssignedInWindow returns non-terminal jobs, other than excludeJobID,
// whose schedule overlaps [start, end) and whose assignees intersect
// workerIDs. Used for conflict detection; pass uuid.Nil to exclude nothing.
func (r *Repo) ListAssignedInWindow(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID, start, end time.Time, excludeJobID uuid.UUID) ([]domain.Job, error) {
	if len(workerIDs) == 0 {
		return []domain.Job{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listAssignedInWindowSQL,
		accountID, excludeJobID, uuidStrings(workerIDs), start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list assigned jobs in window: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// Create inserts a new job. The caller is responsible for allocating the
// number inside the same transaction.
func (r *Repo) Create(ctx context.Context, j domain.Job) (domain.Job, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	j.ID = uuid.New()
	j.CreatedAt = now
	j.UpdatedAt = now

	_, err := q.Exec(ctx, createJobSQL,
		j.ID, j.AccountID, j.ClientID, j.QuoteID, j.ParentJobID, j.Number, j.Title, j.Description,
		j.Address, string(j.Status), string(j.Priority), j.ScheduledStart, j.ScheduledEnd,
		uuidStrings(j.AssigneeIDs), j.EstimatedValue, now,
	)
	if err != nil {
		return domain.Job{}, postgres.MapError(err, "job", j.ID)
	}

	return j, nil
}

// Update applies the non-nil fields of params to the job.
// Returns domain.ErrNotFound if the job does not exist in the account.
func (r *Repo) Update(ctx context.Context, accountID, jobID uuid.UUID, params UpdateParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := psql.Update("jobs").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"account_id": accountID, "id": jobID}).
		Where("deleted_at IS NULL")

	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Address != nil {
		update = update.Set("address", *params.Address)
	}
	if params.Priority != nil {
		update = update.Set("priority", string(*params.Priority))
	}
	if params.EstimatedValue != nil {
		update = update.Set("estimated_value", *params.EstimatedValue)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update job query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "job", jobID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	return nil
}

// UpdateSchedule sets both schedule bounds (or clears them together).
func (r *Repo) UpdateSchedule(ctx context.Context, accountID, jobID uuid.UUID, params ScheduleParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateScheduleSQL, accountID, jobID, params.ScheduledStart, params.ScheduledEnd)
	if err != nil {
		return postgres.MapError(err, "job", jobID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	return nil
}

// UpdateAssignees replaces the job's assignee set.
func (r *Repo) UpdateAssignees(ctx context.Context, accountID, jobID uuid.UUID, assigneeIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateAssigneesSQL, accountID, jobID, uuidStrings(assigneeIDs))
	if err != nil {
		return postgres.MapError(err, "job", jobID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatus writes a status transition and its side fields. The service
// validates the transition and computes the field values before calling.
func (r *Repo) UpdateStatus(ctx context.Context, accountID, jobID uuid.UUID, params StatusParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateStatusSQL,
		accountID, jobID, string(params.Status), params.ActualStart, params.ActualEnd,
		params.ActualCost, params.CompletionNotes, params.CompletionSignature,
	)
	if err != nil {
		return postgres.MapError(err, "job", jobID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks the job as deleted.
func (r *Repo) SoftDelete(ctx context.Context, accountID, jobID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteJobSQL, accountID, jobID)
	if err != nil {
		return postgres.MapError(err, "job", jobID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	return nil
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		j         domain.Job
		status    string
		priority  string
		assignees []string
	)

	err := row.Scan(
		&j.ID, &j.AccountID, &j.ClientID, &j.QuoteID, &j.ParentJobID, &j.Number, &j.Title, &j.Description,
		&j.Address, &status, &priority, &j.ScheduledStart, &j.ScheduledEnd, &j.ActualStart, &j.ActualEnd,
		&assignees, &j.EstimatedValue, &j.ActualCost, &j.CompletionNotes, &j.CompletionSignature,
		&j.CreatedAt, &j.UpdatedAt, &j.DeletedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}

	j.Status = domain.JobStatus(status)
	j.Priority = domain.JobPriority(priority)
	j.AssigneeIDs, err = parseUUIDs(assignees)
	if err != nil {
		return domain.Job{}, err
	}

	return j, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	for i, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse assignee id %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}
