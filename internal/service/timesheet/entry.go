package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// UpdateInput holds the optional fields of a time entry edit.
type UpdateInput struct {
	StartedAt *time.Time
	EndedAt   *time.Time
	Billable  *bool
	Notes     *string
}

// Get returns a time entry by ID.
func (s *Service) Get(ctx context.Context, entryID uuid.UUID) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}

	return s.entries.GetByID(ctx, accountID, entryID)
}

// ListByWorker returns the worker's entries started within [from, to).
func (s *Service) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !to.After(from) {
		return nil, domain.NewValidationError("to", "must be after from")
	}

	return s.entries.ListByWorker(ctx, accountID, workerID, from, to)
}

// Update edits an entry's span, billable flag, or notes. Approved entries
// are immutable. Any edit resets the entry to pending review; editing a
// rejected entry resubmits it. A closed result is checked for overlap
// against the worker's other closed entries and rejected on conflict.
func (s *Service) Update(ctx context.Context, entryID uuid.UUID, input UpdateInput) (domain.TimeEntry, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.TimeEntry{}, domain.ErrUnauthorized
	}

	current, err := s.entries.GetByID(ctx, accountID, entryID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if current.Status == domain.TimeEntryStatusApproved {
		return domain.TimeEntry{}, fmt.Errorf("time entry %s is approved: %w", entryID, domain.ErrInvalidTransition)
	}

	start := current.StartedAt
	if input.StartedAt != nil {
		start = *input.StartedAt
	}
	end := current.EndedAt
	if input.EndedAt != nil {
		end = input.EndedAt
	}

	var minutes *int
	if end != nil {
		if !end.After(start) {
			return domain.TimeEntry{}, domain.NewValidationError("ended_at", "must be after started_at")
		}
		m := domain.DurationMinutes(start, *end)
		if m > s.cfg.MaxTimeEntryHours*60 {
			return domain.TimeEntry{}, domain.NewValidationError("ended_at", "entry too long")
		}
		minutes = &m

		// The repo query is a coarse candidate filter; domain.FindOverlaps
		// decides against the worker's other closed entries.
		candidates, err := s.entries.ListOverlapping(ctx, accountID, current.WorkerID, start, *end, entryID)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		intervals := make([]domain.AssignmentInterval, 0, len(candidates))
		for _, other := range candidates {
			if other.EndedAt == nil {
				continue
			}
			intervals = append(intervals, domain.AssignmentInterval{
				ID:    other.ID,
				Start: other.StartedAt,
				End:   *other.EndedAt,
			})
		}
		if conflicts := domain.FindOverlaps(intervals, start, *end, entryID); len(conflicts) > 0 {
			return domain.TimeEntry{}, fmt.Errorf("time entry %s overlaps entry %s: %w",
				entryID, conflicts[0].ID, domain.ErrConflict)
		}
	}

	billable := current.Billable
	if input.Billable != nil {
		billable = *input.Billable
	}
	notes := current.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}

	if err := s.entries.Update(ctx, accountID, entryID, start, end, minutes, billable, notes); err != nil {
		return domain.TimeEntry{}, err
	}

	return s.entries.GetByID(ctx, accountID, entryID)
}

// Delete removes an entry. Approved entries stay on the books.
func (s *Service) Delete(ctx context.Context, entryID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	current, err := s.entries.GetByID(ctx, accountID, entryID)
	if err != nil {
		return err
	}
	if current.Status == domain.TimeEntryStatusApproved {
		return fmt.Errorf("time entry %s is approved: %w", entryID, domain.ErrInvalidTransition)
	}

	return s.entries.Delete(ctx, accountID, entryID)
}
