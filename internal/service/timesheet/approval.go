package timesheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Approve marks a pending entry as approved by the acting user. Open
// entries cannot be approved; approving twice is an idempotency violation.
func (s *Service) Approve(ctx context.Context, entryID uuid.UUID) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}
	approverID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}

	current, err := s.entries.GetByID(ctx, accountID, entryID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	switch current.Status {
	case domain.TimeEntryStatusApproved:
		return domain.TimeEntry{}, fmt.Errorf("time entry %s already approved: %w", entryID, domain.ErrAlreadyProcessed)
	case domain.TimeEntryStatusRejected:
		return domain.TimeEntry{}, domain.NewTransitionError("time entry", current.Status.String(), domain.TimeEntryStatusApproved.String())
	}
	if current.EndedAt == nil {
		return domain.TimeEntry{}, domain.NewValidationError("ended_at", "cannot approve a running entry")
	}

	moved, err := s.entries.SetApproval(ctx, accountID, entryID,
		domain.TimeEntryStatusApproved, approverID, s.clock.Now(), current.Notes)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if !moved {
		return domain.TimeEntry{}, fmt.Errorf("time entry %s: %w", entryID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "time entry approved",
		"entry_id", entryID, "worker_id", current.WorkerID, "approved_by", approverID)

	return s.entries.GetByID(ctx, accountID, entryID)
}

// Reject marks a pending entry as rejected and appends the reason to its
// notes.
func (s *Service) Reject(ctx context.Context, entryID uuid.UUID, reason string) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}
	approverID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}

	current, err := s.entries.GetByID(ctx, accountID, entryID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	switch current.Status {
	case domain.TimeEntryStatusApproved:
		return domain.TimeEntry{}, fmt.Errorf("time entry %s is approved: %w", entryID, domain.ErrInvalidTransition)
	case domain.TimeEntryStatusRejected:
		return domain.TimeEntry{}, fmt.Errorf("time entry %s already rejected: %w", entryID, domain.ErrAlreadyProcessed)
	}

	notes := current.Notes
	if reason != "" {
		notes = appendNotes(notes, "rejected: "+reason)
	}

	moved, err := s.entries.SetApproval(ctx, accountID, entryID,
		domain.TimeEntryStatusRejected, approverID, s.clock.Now(), notes)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if !moved {
		return domain.TimeEntry{}, fmt.Errorf("time entry %s: %w", entryID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "time entry rejected",
		"entry_id", entryID, "worker_id", current.WorkerID, "rejected_by", approverID)

	return s.entries.GetByID(ctx, accountID, entryID)
}
