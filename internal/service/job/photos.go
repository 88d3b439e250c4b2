package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// AddPhoto attaches a photo to the job. Sort order is the photo count at
// insert time; count and insert share a transaction to keep it stable.
func (s *Service) AddPhoto(ctx context.Context, jobID uuid.UUID, input PhotoInput) (domain.JobPhoto, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.JobPhoto{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.JobPhoto{}, err
	}

	if _, err := s.jobs.GetByID(ctx, accountID, jobID); err != nil {
		return domain.JobPhoto{}, err
	}

	var created domain.JobPhoto
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.photos.CountByJob(txCtx, jobID)
		if err != nil {
			return fmt.Errorf("count photos: %w", err)
		}
		if count >= s.cfg.MaxPhotosPerJob {
			return domain.NewValidationError("photos", "limit reached")
		}

		created, err = s.photos.Create(txCtx, domain.JobPhoto{
			JobID:     jobID,
			URL:       input.URL,
			Caption:   input.Caption,
			SortOrder: count,
		})
		if err != nil {
			return fmt.Errorf("create photo: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return domain.JobPhoto{}, txErr
	}

	return created, nil
}

// ListPhotos returns the job's photos in sort order. Tenant ownership is
// checked via the parent job.
func (s *Service) ListPhotos(ctx context.Context, jobID uuid.UUID) ([]domain.JobPhoto, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.jobs.GetByID(ctx, accountID, jobID); err != nil {
		return nil, err
	}

	return s.photos.ListByJob(ctx, jobID)
}

// DeletePhoto removes a photo. Tenant ownership is checked via the parent
// job.
func (s *Service) DeletePhoto(ctx context.Context, jobID, photoID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.jobs.GetByID(ctx, accountID, jobID); err != nil {
		return err
	}

	return s.photos.Delete(ctx, jobID, photoID)
}
