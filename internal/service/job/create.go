package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Create validates ownership of every referenced entity, allocates a job
// number and persists the job in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxAssigneesPerJob); err != nil {
		return domain.Job{}, err
	}

	if _, err := s.clients.GetByID(ctx, accountID, input.ClientID); err != nil {
		return domain.Job{}, fmt.Errorf("validate client: %w", err)
	}
	if input.QuoteID != nil {
		if _, err := s.quotes.GetByID(ctx, accountID, *input.QuoteID); err != nil {
			return domain.Job{}, fmt.Errorf("validate quote: %w", err)
		}
	}
	if input.ParentJobID != nil {
		if _, err := s.jobs.GetByID(ctx, accountID, *input.ParentJobID); err != nil {
			return domain.Job{}, fmt.Errorf("validate parent job: %w", err)
		}
	}
	if err := s.validateAssignees(ctx, accountID, input.AssigneeIDs); err != nil {
		return domain.Job{}, err
	}

	priority := domain.JobPriorityNormal
	if input.Priority != nil {
		priority = *input.Priority
	}

	var created domain.Job
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.numbers.Next(txCtx, accountID, domain.DocumentTypeJob)
		if err != nil {
			return fmt.Errorf("allocate job number: %w", err)
		}

		created, err = s.jobs.Create(txCtx, domain.Job{
			AccountID:      accountID,
			ClientID:       input.ClientID,
			QuoteID:        input.QuoteID,
			ParentJobID:    input.ParentJobID,
			Number:         number,
			Title:          input.Title,
			Description:    input.Description,
			Address:        input.Address,
			Status:         domain.JobStatusScheduled,
			Priority:       priority,
			ScheduledStart: input.ScheduledStart,
			ScheduledEnd:   input.ScheduledEnd,
			AssigneeIDs:    input.AssigneeIDs,
			EstimatedValue: input.EstimatedValue,
		})
		if err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return domain.Job{}, txErr
	}

	s.log.InfoContext(ctx, "job created",
		"job_id", created.ID, "number", created.Number, "client_id", created.ClientID)

	return created, nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, jobID uuid.UUID) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	return s.jobs.GetByID(ctx, accountID, jobID)
}

// List returns the account's jobs, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *domain.JobStatus) ([]domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if status != nil && !status.IsValid() {
		return nil, domain.NewValidationError("status", "invalid value")
	}

	return s.jobs.List(ctx, accountID, status)
}

// ListByClient returns the client's jobs. The client must belong to the
// caller's account.
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.clients.GetByID(ctx, accountID, clientID); err != nil {
		return nil, err
	}

	return s.jobs.ListByClient(ctx, accountID, clientID)
}
