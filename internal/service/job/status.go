package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// UpdateStatus applies a generic status transition. completed is not a
// valid target here under any circumstances; the completion operation is
// the only path into it.
func (s *Service) UpdateStatus(ctx context.Context, jobID uuid.UUID, target domain.JobStatus) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}
	if !target.IsValid() {
		return domain.Job{}, domain.NewValidationError("status", "invalid value")
	}

	current, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if !current.Status.CanTransitionTo(target) {
		return domain.Job{}, domain.NewTransitionError("job", current.Status.String(), target.String())
	}

	actualStart := current.ActualStart
	if target == domain.JobStatusInProgress && actualStart == nil {
		now := s.clock.Now()
		actualStart = &now
	}

	err = s.jobs.UpdateStatus(ctx, accountID, jobID, jobrepo.StatusParams{
		Status:              target,
		ActualStart:         actualStart,
		ActualEnd:           current.ActualEnd,
		ActualCost:          current.ActualCost,
		CompletionNotes:     current.CompletionNotes,
		CompletionSignature: current.CompletionSignature,
	})
	if err != nil {
		return domain.Job{}, err
	}

	s.log.InfoContext(ctx, "job status updated",
		"job_id", jobID, "from", current.Status, "to", target)

	return s.jobs.GetByID(ctx, accountID, jobID)
}

// Complete finishes a job: status completed, actual end stamped, actual
// start backfilled from the schedule (or now) if tracking never started.
// The invoicing notifier is signalled after the write succeeds.
func (s *Service) Complete(ctx context.Context, jobID uuid.UUID, input CompleteInput) (domain.Job, error) {
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
	if current.Status == domain.JobStatusCompleted {
		return domain.Job{}, fmt.Errorf("job %s: %w", jobID, domain.ErrAlreadyProcessed)
	}
	if current.Status == domain.JobStatusCancelled {
		return domain.Job{}, domain.NewTransitionError("job", current.Status.String(), domain.JobStatusCompleted.String())
	}

	now := s.clock.Now()
	actualStart := current.ActualStart
	if actualStart == nil {
		if current.ScheduledStart != nil {
			actualStart = current.ScheduledStart
		} else {
			actualStart = &now
		}
	}
	actualCost := current.ActualCost
	if input.ActualCost != nil {
		actualCost = input.ActualCost
	}

	err = s.jobs.UpdateStatus(ctx, accountID, jobID, jobrepo.StatusParams{
		Status:              domain.JobStatusCompleted,
		ActualStart:         actualStart,
		ActualEnd:           &now,
		ActualCost:          actualCost,
		CompletionNotes:     input.Notes,
		CompletionSignature: input.Signature,
	})
	if err != nil {
		return domain.Job{}, err
	}

	completed, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return domain.Job{}, err
	}

	s.log.InfoContext(ctx, "job completed", "job_id", jobID, "number", completed.Number)
	s.notifier.JobCompleted(ctx, completed)

	return completed, nil
}
