// Package jobphoto implements the job photo repository using PostgreSQL.
package jobphoto

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

// Repo provides job photo persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new job photo repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createPhotoSQL = `
INSERT INTO job_photos (id, job_id, url, caption, sort_order, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const listPhotosSQL = `
SELECT id, job_id, url, caption, sort_order, created_at
FROM job_photos
WHERE job_id = $1
ORDER BY sort_order ASC`

const countPhotosSQL = `
SELECT count(*) FROM job_photos WHERE job_id = $1`

const deletePhotoSQL = `
DELETE FROM job_photos WHERE job_id = $1 AND id = $2`

// Create inserts a photo. The caller assigns SortOrder (the photo count at
// insert time, taken inside the same transaction).
func (r *Repo) Create(ctx context.Context, p domain.JobPhoto) (domain.JobPhoto, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := q.Exec(ctx, createPhotoSQL, p.ID, p.JobID, p.URL, p.Caption, p.SortOrder, p.CreatedAt)
	if err != nil {
		return domain.JobPhoto{}, postgres.MapError(err, "job photo", p.ID)
	}

	return p, nil
}

// ListByJob returns the job's photos in sort order.
func (r *Repo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobPhoto, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listPhotosSQL, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job photos: %w", err)
	}
	defer rows.Close()

	photos := []domain.JobPhoto{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("list job photos: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list job photos: %w", err)
	}

	return photos, nil
}

// CountByJob returns the number of photos attached to the job.
func (r *Repo) CountByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countPhotosSQL, jobID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count job photos: %w", err)
	}

	return count, nil
}

// Delete removes a photo from the job.
func (r *Repo) Delete(ctx context.Context, jobID, photoID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deletePhotoSQL, jobID, photoID)
	if err != nil {
		return postgres.MapError(err, "job photo", photoID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job photo %s: %w", photoID, domain.ErrNotFound)
	}

	return nil
}

func scanPhoto(row pgx.Row) (domain.JobPhoto, error) {
	var p domain.JobPhoto
	err := row.Scan(&p.ID, &p.JobID, &p.URL, &p.Caption, &p.SortOrder, &p.CreatedAt)
	return p, err
}
