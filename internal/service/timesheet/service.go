// Package timesheet implements worker time tracking: clock in/out, manual
// edits, and the approval workflow. A worker has at most one running entry
// at any moment.
//
// Approved entries are immutable. Rejected entries stay editable: an edit
// resubmits the entry, moving it back to pending for another review.
package timesheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	GetByID(ctx context.Context, accountID, entryID uuid.UUID) (domain.TimeEntry, error)
	GetActiveByWorker(ctx context.Context, accountID, workerID uuid.UUID) (domain.TimeEntry, error)
	ListByWorker(ctx context.Context, accountID, workerID uuid.UUID, from, to time.Time) ([]domain.TimeEntry, error)
	ListOverlapping(ctx context.Context, accountID, workerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]domain.TimeEntry, error)
	Create(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)
	Close(ctx context.Context, accountID, entryID uuid.UUID, endedAt time.Time, durationMinutes int, location, notes string) (bool, error)
	Update(ctx context.Context, accountID, entryID uuid.UUID, startedAt time.Time, endedAt *time.Time, durationMinutes *int, billable bool, notes string) error
	SetApproval(ctx context.Context, accountID, entryID uuid.UUID, status domain.TimeEntryStatus, approverID uuid.UUID, at time.Time, notes string) (bool, error)
	Delete(ctx context.Context, accountID, entryID uuid.UUID) error
}

type workerRepo interface {
	GetByID(ctx context.Context, accountID, workerID uuid.UUID) (domain.Worker, error)
}

type jobRepo interface {
	GetByID(ctx context.Context, accountID, jobID uuid.UUID) (domain.Job, error)
}

type clock interface {
	Now() time.Time
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the time tracking business logic.
type Service struct {
	log     *slog.Logger
	entries entryRepo
	workers workerRepo
	jobs    jobRepo
	clock   clock
	cfg     config.WorkflowConfig
}

// NewService creates a new Timesheet service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	workers workerRepo,
	jobs jobRepo,
	clock clock,
	cfg config.WorkflowConfig,
) *Service {
	return &Service{
		log:     log.With("service", "timesheet"),
		entries: entries,
		workers: workers,
		jobs:    jobs,
		clock:   clock,
		cfg:     cfg,
	}
}

// appendNotes adds a line to existing notes instead of overwriting them.
func appendNotes(existing, added string) string {
	switch {
	case added == "":
		return existing
	case existing == "":
		return added
	default:
		return existing + "\n" + added
	}
}
