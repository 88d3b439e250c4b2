package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// UpdateSchedule replaces the job's schedule window and, when provided, its
// team. Conflicts with the workers' other assignments are logged at WARN
// and never block the update.
func (s *Service) UpdateSchedule(ctx context.Context, jobID uuid.UUID, input ScheduleInput) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxAssigneesPerJob); err != nil {
		return domain.Job{}, err
	}

	current, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if current.Status.IsTerminal() {
		return domain.Job{}, fmt.Errorf("job %s is %s: %w", jobID, current.Status, domain.ErrInvalidTransition)
	}

	assignees := current.AssigneeIDs
	if input.AssigneeIDs != nil {
		if err := s.validateAssignees(ctx, accountID, input.AssigneeIDs); err != nil {
			return domain.Job{}, err
		}
		assignees = input.AssigneeIDs
	}

	if input.ScheduledStart != nil && input.ScheduledEnd != nil {
		s.warnConflicts(ctx, accountID, assignees, *input.ScheduledStart, *input.ScheduledEnd, jobID)
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.jobs.UpdateSchedule(txCtx, accountID, jobID, jobrepo.ScheduleParams{
			ScheduledStart: input.ScheduledStart,
			ScheduledEnd:   input.ScheduledEnd,
		}); err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}
		if input.AssigneeIDs != nil {
			if err := s.jobs.UpdateAssignees(txCtx, accountID, jobID, input.AssigneeIDs); err != nil {
				return fmt.Errorf("update assignees: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return domain.Job{}, txErr
	}

	return s.jobs.GetByID(ctx, accountID, jobID)
}

// AssignTeam replaces the job's assignee set. Conflicts against the job's
// existing schedule are logged at WARN and never block the update.
func (s *Service) AssignTeam(ctx context.Context, jobID uuid.UUID, assigneeIDs []uuid.UUID) (domain.Job, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Job{}, domain.ErrUnauthorized
	}

	if errs := validateAssigneeList(assigneeIDs, s.cfg.MaxAssigneesPerJob); len(errs) > 0 {
		return domain.Job{}, domain.NewValidationErrors(errs)
	}

	current, err := s.jobs.GetByID(ctx, accountID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if current.Status.IsTerminal() {
		return domain.Job{}, fmt.Errorf("job %s is %s: %w", jobID, current.Status, domain.ErrInvalidTransition)
	}

	if err := s.validateAssignees(ctx, accountID, assigneeIDs); err != nil {
		return domain.Job{}, err
	}

	if current.HasSchedule() {
		s.warnConflicts(ctx, accountID, assigneeIDs, *current.ScheduledStart, *current.ScheduledEnd, jobID)
	}

	if err := s.jobs.UpdateAssignees(ctx, accountID, jobID, assigneeIDs); err != nil {
		return domain.Job{}, err
	}

	return s.jobs.GetByID(ctx, accountID, jobID)
}
