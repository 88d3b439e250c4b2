// Package job implements the job lifecycle: creation with number
// allocation, scheduling, team assignment, the status machine, completion,
// and photo attachments.
package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type jobRepo interface {
	GetByID(ctx context.Context, accountID, jobID uuid.UUID) (domain.Job, error)
	List(ctx context.Context, accountID uuid.UUID, status *domain.JobStatus) ([]domain.Job, error)
	ListByClient(ctx context.Context, accountID, clientID uuid.UUID) ([]domain.Job, error)
	ListAssignedInWindow(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID, start, end time.Time, excludeJobID uuid.UUID) ([]domain.Job, error)
	Create(ctx context.Context, j domain.Job) (domain.Job, error)
	Update(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.UpdateParams) error
	UpdateSchedule(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.ScheduleParams) error
	UpdateAssignees(ctx context.Context, accountID, jobID uuid.UUID, assigneeIDs []uuid.UUID) error
	UpdateStatus(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.StatusParams) error
	SoftDelete(ctx context.Context, accountID, jobID uuid.UUID) error
}

type clientRepo interface {
	GetByID(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error)
}

type workerRepo interface {
	ListActiveByIDs(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID) ([]domain.Worker, error)
}

type photoRepo interface {
	Create(ctx context.Context, p domain.JobPhoto) (domain.JobPhoto, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobPhoto, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int, error)
	Delete(ctx context.Context, jobID, photoID uuid.UUID) error
}

type quoteRepo interface {
	GetByID(ctx context.Context, accountID, quoteID uuid.UUID) (domain.Quote, error)
}

type invoiceRepo interface {
	ExistsForJob(ctx context.Context, accountID, jobID uuid.UUID) (bool, error)
}

type numberAllocator interface {
	Next(ctx context.Context, accountID uuid.UUID, docType domain.DocumentType) (string, error)
}

// invoicingNotifier signals the billing side after a completion commits.
// Fire and forget: it returns nothing and must not fail the operation.
type invoicingNotifier interface {
	JobCompleted(ctx context.Context, job domain.Job)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the job business logic.
type Service struct {
	log      *slog.Logger
	jobs     jobRepo
	clients  clientRepo
	workers  workerRepo
	photos   photoRepo
	quotes   quoteRepo
	invoices invoiceRepo
	numbers  numberAllocator
	notifier invoicingNotifier
	tx       txManager
	clock    clock
	cfg      config.WorkflowConfig
}

// NewService creates a new Job service.
func NewService(
	log *slog.Logger,
	jobs jobRepo,
	clients clientRepo,
	workers workerRepo,
	photos photoRepo,
	quotes quoteRepo,
	invoices invoiceRepo,
	numbers numberAllocator,
	notifier invoicingNotifier,
	tx txManager,
	clock clock,
	cfg config.WorkflowConfig,
) *Service {
	return &Service{
		log:      log.With("service", "job"),
		jobs:     jobs,
		clients:  clients,
		workers:  workers,
		photos:   photos,
		quotes:   quotes,
		invoices: invoices,
		numbers:  numbers,
		notifier: notifier,
		tx:       tx,
		clock:    clock,
		cfg:      cfg,
	}
}

// validateAssignees checks that every ID names an active worker of the
// account. Returns a field error naming the unknown IDs.
func (s *Service) validateAssignees(ctx context.Context, accountID uuid.UUID, assigneeIDs []uuid.UUID) error {
	if len(assigneeIDs) == 0 {
		return nil
	}

	found, err := s.workers.ListActiveByIDs(ctx, accountID, assigneeIDs)
	if err != nil {
		return err
	}
	if len(found) == len(assigneeIDs) {
		return nil
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, w := range found {
		known[w.ID] = struct{}{}
	}
	for _, id := range assigneeIDs {
		if _, ok := known[id]; !ok {
			return domain.NewValidationError("assignee_ids", "unknown or inactive worker "+id.String())
		}
	}
	return nil
}

// warnConflicts logs a warning for every other job whose schedule overlaps
// [start, end) for any of the given workers. Conflicts never block; the
// account is allowed to double-book, but the fact is recorded. The repo
// query is a coarse candidate filter; domain.FindOverlaps decides.
func (s *Service) warnConflicts(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID, start, end time.Time, excludeJobID uuid.UUID) {
	if len(workerIDs) == 0 {
		return
	}

	candidates, err := s.jobs.ListAssignedInWindow(ctx, accountID, workerIDs, start, end, excludeJobID)
	if err != nil {
		s.log.ErrorContext(ctx, "conflict check failed", "job_id", excludeJobID, "error", err)
		return
	}

	byID := make(map[uuid.UUID]domain.Job, len(candidates))
	intervals := make([]domain.AssignmentInterval, 0, len(candidates))
	for _, other := range candidates {
		if !other.HasSchedule() {
			continue
		}
		byID[other.ID] = other
		intervals = append(intervals, domain.AssignmentInterval{
			ID:    other.ID,
			Start: *other.ScheduledStart,
			End:   *other.ScheduledEnd,
		})
	}

	for _, iv := range domain.FindOverlaps(intervals, start, end, excludeJobID) {
		other := byID[iv.ID]
		s.log.WarnContext(ctx, "scheduling conflict",
			"job_id", excludeJobID,
			"conflicting_job_id", other.ID,
			"conflicting_job_number", other.Number,
			"workers", sharedWorkers(workerIDs, other.AssigneeIDs),
			"window_start", start,
			"window_end", end,
		)
	}
}

func sharedWorkers(requested, assigned []uuid.UUID) []string {
	set := make(map[uuid.UUID]struct{}, len(assigned))
	for _, id := range assigned {
		set[id] = struct{}{}
	}
	var shared []string
	for _, id := range requested {
		if _, ok := set[id]; ok {
			shared = append(shared, id.String())
		}
	}
	return shared
}
