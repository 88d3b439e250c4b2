package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Update applies the non-nil fields of input to the job. Status, schedule
// and team go through their dedicated operations, never through here.
func (s *Service) Update(ctx context.Context, jobID uuid.UUID, input UpdateInput) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Job{}, err
	}

	current, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if current.Status.IsTerminal() {
		return domain.Job{}, fmt.Errorf("job %s is %s: %w", jobID, current.Status, domain.ErrInvalidTransition)
	}

	err = s.jobs.Update(ctx, accountID, jobID, jobrepo.UpdateParams{
		Title:          input.Title,
		Description:    input.Description,
		Address:        input.Address,
		Priority:       input.Priority,
		EstimatedValue: input.EstimatedValue,
	})
	if err != nil {
		return domain.Job{}, err
	}

	return s.jobs.GetByID(ctx, accountID, jobID)
}

// Delete soft-deletes a job. Completed jobs and jobs referenced by an
// invoice are kept for the books.
func (s *Service) Delete(ctx context.Context, jobID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	current, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return err
	}
	if current.Status == domain.JobStatusCompleted {
		return fmt.Errorf("job %s is completed: %w", jobID, domain.ErrInvalidTransition)
	}

	invoiced, err := s.invoices.ExistsForJob(ctx, accountID, jobID)
	if err != nil {
		return fmt.Errorf("check invoices: %w", err)
	}
	if invoiced {
		return fmt.Errorf("job %s is invoiced: %w", jobID, domain.ErrConflict)
	}

	if err := s.jobs.SoftDelete(ctx, accountID, jobID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "job deleted", "job_id", jobID, "number", current.Number)
	return nil
}
