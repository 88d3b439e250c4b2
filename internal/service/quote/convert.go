package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	jobsvc "github.com/dkoval/fieldops-backend/internal/service/job"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// ConvertToJob turns an approved quote into a job. The job inherits the
// quote's client, title, description, address, and total as its estimated
// value. The job insert and the quote's converted marker commit together:
// if either write fails the quote is left untouched. A second conversion
// attempt fails with ErrAlreadyProcessed.
func (s *Service) ConvertToJob(ctx context.Context, quoteID uuid.UUID) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return domain.Job{}, err
	}
	if current.Status == domain.QuoteStatusConverted || current.ConvertedJobID != nil {
		return domain.Job{}, fmt.Errorf("quote %s already converted: %w", quoteID, domain.ErrAlreadyProcessed)
	}
	if current.Status != domain.QuoteStatusApproved {
		return domain.Job{}, domain.NewTransitionError("quote", current.Status.String(), domain.QuoteStatusConverted.String())
	}

	total := current.Total
	var job domain.Job
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		job, err = s.jobs.Create(txCtx, jobsvc.CreateInput{
			ClientID:       current.ClientID,
			QuoteID:        &quoteID,
			Title:          current.Title,
			Description:    current.Description,
			Address:        current.Address,
			EstimatedValue: &total,
		})
		if err != nil {
			return fmt.Errorf("create job from quote: %w", err)
		}

		converted, err := s.quotes.SetConverted(txCtx, accountID, quoteID, job.ID)
		if err != nil {
			return err
		}
		if !converted {
			// Lost the race against another conversion; rolling back
			// discards the job just created.
			return fmt.Errorf("quote %s: %w", quoteID, domain.ErrAlreadyProcessed)
		}
		return nil
	})
	if txErr != nil {
		return domain.Job{}, txErr
	}

	s.log.InfoContext(ctx, "quote converted",
		"quote_id", quoteID, "number", current.Number, "job_id", job.ID, "job_number", job.Number)

	return job, nil
}
