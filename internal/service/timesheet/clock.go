package timesheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// ClockIn starts a time entry for the worker. A worker with a running entry
// cannot clock in again; the check happens before the insert, with the
// partial unique index backstopping concurrent attempts.
func (s *Service) ClockIn(ctx context.Context, workerID uuid.UUID, jobID *uuid.UUID) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}
	if workerID == uuid.Nil {
		return domain.TimeEntry{}, domain.NewValidationError("worker_id", "required")
	}

	if _, err := s.workers.GetByID(ctx, accountID, workerID); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("validate worker: %w", err)
	}
	if jobID != nil {
		if _, err := s.jobs.GetByID(ctx, accountID, *jobID); err != nil {
			return domain.TimeEntry{}, fmt.Errorf("validate job: %w", err)
		}
	}

	_, err := s.entries.GetActiveByWorker(ctx, accountID, workerID)
	switch {
	case err == nil:
		return domain.TimeEntry{}, fmt.Errorf("worker %s is already clocked in: %w", workerID, domain.ErrAlreadyProcessed)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.TimeEntry{}, err
	}

	created, err := s.entries.Create(ctx, domain.TimeEntry{
		AccountID: accountID,
		WorkerID:  workerID,
		JobID:     jobID,
		EntryType: domain.TimeEntryTypeJob,
		Status:    domain.TimeEntryStatusPending,
		StartedAt: s.clock.Now(),
		Billable:  true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent clock-in won the index race.
			return domain.TimeEntry{}, fmt.Errorf("worker %s is already clocked in: %w", workerID, domain.ErrAlreadyProcessed)
		}
		return domain.TimeEntry{}, err
	}

	s.log.InfoContext(ctx, "worker clocked in",
		"entry_id", created.ID, "worker_id", workerID, "job_id", jobID)

	return created, nil
}

// ClockOut ends a running entry. Duration is whole minutes, rounded down;
// notes are appended to whatever the entry already carries.
func (s *Service) ClockOut(ctx context.Context, entryID uuid.UUID, location, notes string) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}

	current, err := s.entries.GetByID(ctx, accountID, entryID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if current.EndedAt != nil {
		return domain.TimeEntry{}, fmt.Errorf("time entry %s already ended: %w", entryID, domain.ErrAlreadyProcessed)
	}

	end := s.clock.Now()
	minutes := domain.DurationMinutes(current.StartedAt, end)

	closed, err := s.entries.Close(ctx, accountID, entryID, end, minutes, location, appendNotes(current.Notes, notes))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if !closed {
		return domain.TimeEntry{}, fmt.Errorf("time entry %s already ended: %w", entryID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "worker clocked out",
		"entry_id", entryID, "worker_id", current.WorkerID, "duration_minutes", minutes)

	return s.entries.GetByID(ctx, accountID, entryID)
}
