package job

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockJobRepo struct {
	getByIDFunc              func(ctx context.Context, accountID, jobID uuid.UUID) (domain.Job, error)
	listFunc                 func(ctx context.Context, accountID uuid.UUID, status *domain.JobStatus) ([]domain.Job, error)
	listByClientFunc         func(ctx context.Context, accountID, clientID uuid.UUID) ([]domain.Job, error)
	listAssignedInWindowFunc func(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID, start, end time.Time, excludeJobID uuid.UUID) ([]domain.Job, error)
	createFunc               func(ctx context.Context, j domain.Job) (domain.Job, error)
	updateFunc               func(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.UpdateParams) error
	updateScheduleFunc       func(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.ScheduleParams) error
	updateAssigneesFunc      func(ctx context.Context, accountID, jobID uuid.UUID, assigneeIDs []uuid.UUID) error
	updateStatusFunc         func(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.StatusParams) error
	softDeleteFunc           func(ctx context.Context, accountID, jobID uuid.UUID) error
}

func (m *mockJobRepo) GetByID(ctx context.Context, accountID, jobID uuid.UUID) (domain.Job, error) {
	return m.getByIDFunc(ctx, accountID, jobID)
}

func (m *mockJobRepo) List(ctx context.Context, accountID uuid.UUID, status *domain.JobStatus) ([]domain.Job, error) {
	return m.listFunc(ctx, accountID, status)
}

func (m *mockJobRepo) ListByClient(ctx context.Context, accountID, clientID uuid.UUID) ([]domain.Job, error) {
	return m.listByClientFunc(ctx, accountID, clientID)
}

func (m *mockJobRepo) ListAssignedInWindow(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID, start, end time.Time, excludeJobID uuid.UUID) ([]domain.Job, error) {
	return m.listAssignedInWindowFunc(ctx, accountID, workerIDs, start, end, excludeJobID)
}

func (m *mockJobRepo) Create(ctx context.Context, j domain.Job) (domain.Job, error) {
	return m.createFunc(ctx, j)
}

func (m *mockJobRepo) Update(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.UpdateParams) error {
	return m.updateFunc(ctx, accountID, jobID, params)
}

func (m *mockJobRepo) UpdateSchedule(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.ScheduleParams) error {
	return m.updateScheduleFunc(ctx, accountID, jobID, params)
}

func (m *mockJobRepo) UpdateAssignees(ctx context.Context, accountID, jobID uuid.UUID, assigneeIDs []uuid.UUID) error {
	return m.updateAssigneesFunc(ctx, accountID, jobID, assigneeIDs)
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, accountID, jobID uuid.UUID, params jobrepo.StatusParams) error {
	return m.updateStatusFunc(ctx, accountID, jobID, params)
}

func (m *mockJobRepo) SoftDelete(ctx context.Context, accountID, jobID uuid.UUID) error {
	return m.softDeleteFunc(ctx, accountID, jobID)
}

type mockClientRepo struct {
	getByIDFunc func(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error)
}

func (m *mockClientRepo) GetByID(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error) {
	return m.getByIDFunc(ctx, accountID, clientID)
}

type mockWorkerRepo struct {
	listActiveByIDsFunc func(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID) ([]domain.Worker, error)
}

func (m *mockWorkerRepo) ListActiveByIDs(ctx context.Context, accountID uuid.UUID, workerIDs []uuid.UUID) ([]domain.Worker, error) {
	return m.listActiveByIDsFunc(ctx, accountID, workerIDs)
}

type mockPhotoRepo struct {
	createFunc     func(ctx context.Context, p domain.JobPhoto) (domain.JobPhoto, error)
	listByJobFunc  func(ctx context.Context, jobID uuid.UUID) ([]domain.JobPhoto, error)
	countByJobFunc func(ctx context.Context, jobID uuid.UUID) (int, error)
	deleteFunc     func(ctx context.Context, jobID, photoID uuid.UUID) error
}

func (m *mockPhotoRepo) Create(ctx context.Context, p domain.JobPhoto) (domain.JobPhoto, error) {
	return m.createFunc(ctx, p)
}

func (m *mockPhotoRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobPhoto, error) {
	return m.listByJobFunc(ctx, jobID)
}

func (m *mockPhotoRepo) CountByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	return m.countByJobFunc(ctx, jobID)
}

func (m *mockPhotoRepo) Delete(ctx context.Context, jobID, photoID uuid.UUID) error {
	return m.deleteFunc(ctx, jobID, photoID)
}

type mockQuoteRepo struct {
	getByIDFunc func(ctx context.Context, accountID, quoteID uuid.UUID) (domain.Quote, error)
}

func (m *mockQuoteRepo) GetByID(ctx context.Context, accountID, quoteID uuid.UUID) (domain.Quote, error) {
	return m.getByIDFunc(ctx, accountID, quoteID)
}

type mockInvoiceRepo struct {
	existsForJobFunc func(ctx context.Context, accountID, jobID uuid.UUID) (bool, error)
}

func (m *mockInvoiceRepo) ExistsForJob(ctx context.Context, accountID, jobID uuid.UUID) (bool, error) {
	return m.existsForJobFunc(ctx, accountID, jobID)
}

type mockNumberAllocator struct {
	nextFunc func(ctx context.Context, accountID uuid.UUID, docType domain.DocumentType) (string, error)
}

func (m *mockNumberAllocator) Next(ctx context.Context, accountID uuid.UUID, docType domain.DocumentType) (string, error) {
	return m.nextFunc(ctx, accountID, docType)
}

type mockNotifier struct {
	completed []domain.Job
}

func (m *mockNotifier) JobCompleted(_ context.Context, job domain.Job) {
	m.completed = append(m.completed, job)
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// ---------------------------------------------------------------------------
// Test fixture
// ---------------------------------------------------------------------------

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	jobs     *mockJobRepo
	clients  *mockClientRepo
	workers  *mockWorkerRepo
	photos   *mockPhotoRepo
	quotes   *mockQuoteRepo
	invoices *mockInvoiceRepo
	numbers  *mockNumberAllocator
	notifier *mockNotifier
	tx       *mockTxManager
	logs     *bytes.Buffer

	accountID uuid.UUID
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		jobs:      &mockJobRepo{},
		clients:   &mockClientRepo{},
		workers:   &mockWorkerRepo{},
		photos:    &mockPhotoRepo{},
		quotes:    &mockQuoteRepo{},
		invoices:  &mockInvoiceRepo{},
		numbers:   &mockNumberAllocator{},
		notifier:  &mockNotifier{},
		tx:        &mockTxManager{},
		logs:      &bytes.Buffer{},
		accountID: uuid.New(),
	}
	f.ctx = ctxutil.WithAccountID(context.Background(), f.accountID)

	f.clients.getByIDFunc = func(_ context.Context, _, clientID uuid.UUID) (domain.Client, error) {
		return domain.Client{ID: clientID, AccountID: f.accountID}, nil
	}
	f.workers.listActiveByIDsFunc = func(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]domain.Worker, error) {
		workers := make([]domain.Worker, len(ids))
		for i, id := range ids {
			workers[i] = domain.Worker{ID: id, Active: true}
		}
		return workers, nil
	}
	f.jobs.listAssignedInWindowFunc = func(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time, _ uuid.UUID) ([]domain.Job, error) {
		return nil, nil
	}
	f.numbers.nextFunc = func(_ context.Context, _ uuid.UUID, docType domain.DocumentType) (string, error) {
		return docType.DefaultPrefix() + "-0042", nil
	}

	log := slog.New(slog.NewTextHandler(f.logs, nil))
	f.svc = NewService(
		log,
		f.jobs, f.clients, f.workers, f.photos, f.quotes, f.invoices,
		f.numbers, f.notifier, f.tx,
		fixedClock{now: testNow},
		config.WorkflowConfig{
			MaxAssigneesPerJob:   10,
			MaxPhotosPerJob:      30,
			MaxLineItemsPerQuote: 100,
			QuoteExpiryDays:      30,
			ExpireSweepBatchSize: 500,
			MaxTimeEntryHours:    24,
		},
	)
	return f
}

// existingJob wires getByIDFunc to return the given job (by value) for its ID.
func (f *fixture) existingJob(j domain.Job) {
	f.jobs.getByIDFunc = func(_ context.Context, accountID, jobID uuid.UUID) (domain.Job, error) {
		if accountID != f.accountID || jobID != j.ID {
			return domain.Job{}, domain.ErrNotFound
		}
		return j, nil
	}
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate(t *testing.T) {
	f := newFixture(t)

	var inserted domain.Job
	f.jobs.createFunc = func(_ context.Context, j domain.Job) (domain.Job, error) {
		j.ID = uuid.New()
		inserted = j
		return j, nil
	}

	clientID := uuid.New()
	created, err := f.svc.Create(f.ctx, CreateInput{
		ClientID: clientID,
		Title:    "Replace water heater",
	})
	require.NoError(t, err)

	assert.Equal(t, "JOB-0042", created.Number)
	assert.Equal(t, domain.JobStatusScheduled, created.Status)
	assert.Equal(t, domain.JobPriorityNormal, created.Priority, "priority defaults to normal")
	assert.Equal(t, f.accountID, inserted.AccountID)
	assert.Equal(t, clientID, inserted.ClientID)
	assert.Equal(t, 1, f.tx.calls, "number allocation and insert share a transaction")
}

func TestCreate_NoAccountInContext(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		ClientID: uuid.New(),
		Title:    "Replace water heater",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_MissingTitle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, CreateInput{ClientID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_UnknownClient(t *testing.T) {
	f := newFixture(t)

	f.clients.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (domain.Client, error) {
		return domain.Client{}, domain.ErrNotFound
	}

	_, err := f.svc.Create(f.ctx, CreateInput{
		ClientID: uuid.New(),
		Title:    "Replace water heater",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_InactiveAssignee(t *testing.T) {
	f := newFixture(t)

	active := uuid.New()
	inactive := uuid.New()
	f.workers.listActiveByIDsFunc = func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]domain.Worker, error) {
		return []domain.Worker{{ID: active, Active: true}}, nil
	}

	_, err := f.svc.Create(f.ctx, CreateInput{
		ClientID:    uuid.New(),
		Title:       "Replace water heater",
		AssigneeIDs: []uuid.UUID{active, inactive},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), inactive.String())
}

func TestCreate_ScheduleEndBeforeStart(t *testing.T) {
	f := newFixture(t)

	start := testNow
	end := testNow.Add(-time.Hour)
	_, err := f.svc.Create(f.ctx, CreateInput{
		ClientID:       uuid.New(),
		Title:          "Replace water heater",
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Scheduling and team assignment
// ---------------------------------------------------------------------------

func TestUpdateSchedule_ConflictWarnsButDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	worker := uuid.New()
	job := domain.Job{
		ID:          uuid.New(),
		AccountID:   f.accountID,
		Status:      domain.JobStatusScheduled,
		AssigneeIDs: []uuid.UUID{worker},
	}
	f.existingJob(job)

	start := testNow.Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	otherStart := start.Add(time.Hour)
	otherEnd := otherStart.Add(2 * time.Hour)
	f.jobs.listAssignedInWindowFunc = func(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time, _ uuid.UUID) ([]domain.Job, error) {
		return []domain.Job{{
			ID:             uuid.New(),
			Number:         "JOB-0007",
			AssigneeIDs:    []uuid.UUID{worker},
			ScheduledStart: &otherStart,
			ScheduledEnd:   &otherEnd,
		}}, nil
	}
	f.jobs.updateScheduleFunc = func(_ context.Context, _, _ uuid.UUID, _ jobrepo.ScheduleParams) error {
		return nil
	}

	_, err := f.svc.UpdateSchedule(f.ctx, job.ID, ScheduleInput{
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	require.NoError(t, err, "overlapping assignment is a warning, not an error")
	assert.Contains(t, f.logs.String(), "scheduling conflict")
	assert.Contains(t, f.logs.String(), "JOB-0007")
}

func TestUpdateSchedule_TouchingJobIsNotAConflict(t *testing.T) {
	f := newFixture(t)

	worker := uuid.New()
	job := domain.Job{
		ID:          uuid.New(),
		AccountID:   f.accountID,
		Status:      domain.JobStatusScheduled,
		AssigneeIDs: []uuid.UUID{worker},
	}
	f.existingJob(job)

	start := testNow.Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	// The other job ends exactly where the new window begins.
	otherStart := start.Add(-3 * time.Hour)
	otherEnd := start
	f.jobs.listAssignedInWindowFunc = func(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time, _ uuid.UUID) ([]domain.Job, error) {
		return []domain.Job{{
			ID:             uuid.New(),
			Number:         "JOB-0008",
			AssigneeIDs:    []uuid.UUID{worker},
			ScheduledStart: &otherStart,
			ScheduledEnd:   &otherEnd,
		}}, nil
	}
	f.jobs.updateScheduleFunc = func(_ context.Context, _, _ uuid.UUID, _ jobrepo.ScheduleParams) error {
		return nil
	}

	_, err := f.svc.UpdateSchedule(f.ctx, job.ID, ScheduleInput{
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	require.NoError(t, err)
	assert.NotContains(t, f.logs.String(), "scheduling conflict", "touching windows do not overlap")
}

func TestUpdateSchedule_TerminalJob(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusCompleted}
	f.existingJob(job)

	start := testNow
	end := testNow.Add(time.Hour)
	_, err := f.svc.UpdateSchedule(f.ctx, job.ID, ScheduleInput{
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAssignTeam(t *testing.T) {
	f := newFixture(t)

	start := testNow.Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)
	job := domain.Job{
		ID:             uuid.New(),
		AccountID:      f.accountID,
		Status:         domain.JobStatusScheduled,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	}
	f.existingJob(job)

	team := []uuid.UUID{uuid.New(), uuid.New()}
	var assigned []uuid.UUID
	f.jobs.updateAssigneesFunc = func(_ context.Context, _, _ uuid.UUID, ids []uuid.UUID) error {
		assigned = ids
		return nil
	}

	var checkedStart, checkedEnd time.Time
	f.jobs.listAssignedInWindowFunc = func(_ context.Context, _ uuid.UUID, _ []uuid.UUID, s, e time.Time, _ uuid.UUID) ([]domain.Job, error) {
		checkedStart, checkedEnd = s, e
		return nil, nil
	}

	_, err := f.svc.AssignTeam(f.ctx, job.ID, team)
	require.NoError(t, err)
	assert.Equal(t, team, assigned)
	assert.Equal(t, start, checkedStart, "conflicts are checked against the job's own window")
	assert.Equal(t, end, checkedEnd)
}

func TestAssignTeam_DuplicateWorker(t *testing.T) {
	f := newFixture(t)

	worker := uuid.New()
	_, err := f.svc.AssignTeam(f.ctx, uuid.New(), []uuid.UUID{worker, worker})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Status machine
// ---------------------------------------------------------------------------

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.JobStatus
		to      domain.JobStatus
		wantErr error
	}{
		{name: "scheduled to en_route", from: domain.JobStatusScheduled, to: domain.JobStatusEnRoute},
		{name: "scheduled to in_progress", from: domain.JobStatusScheduled, to: domain.JobStatusInProgress},
		{name: "en_route to in_progress", from: domain.JobStatusEnRoute, to: domain.JobStatusInProgress},
		{name: "on_hold back to scheduled", from: domain.JobStatusOnHold, to: domain.JobStatusScheduled},
		{name: "in_progress to cancelled", from: domain.JobStatusInProgress, to: domain.JobStatusCancelled},
		{name: "completed is never a generic target", from: domain.JobStatusInProgress, to: domain.JobStatusCompleted, wantErr: domain.ErrInvalidTransition},
		{name: "no leaving completed", from: domain.JobStatusCompleted, to: domain.JobStatusScheduled, wantErr: domain.ErrInvalidTransition},
		{name: "no leaving cancelled", from: domain.JobStatusCancelled, to: domain.JobStatusScheduled, wantErr: domain.ErrInvalidTransition},
		{name: "scheduled cannot skip to nothing", from: domain.JobStatusScheduled, to: "teleported", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: tt.from}
			f.existingJob(job)
			f.jobs.updateStatusFunc = func(_ context.Context, _, _ uuid.UUID, _ jobrepo.StatusParams) error {
				return nil
			}

			_, err := f.svc.UpdateStatus(f.ctx, job.ID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdateStatus_InProgressStampsActualStart(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusScheduled}
	f.existingJob(job)

	var params jobrepo.StatusParams
	f.jobs.updateStatusFunc = func(_ context.Context, _, _ uuid.UUID, p jobrepo.StatusParams) error {
		params = p
		return nil
	}

	_, err := f.svc.UpdateStatus(f.ctx, job.ID, domain.JobStatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, params.ActualStart)
	assert.Equal(t, testNow, *params.ActualStart)
}

func TestUpdateStatus_ActualStartNotOverwritten(t *testing.T) {
	f := newFixture(t)

	started := testNow.Add(-3 * time.Hour)
	job := domain.Job{
		ID:          uuid.New(),
		AccountID:   f.accountID,
		Status:      domain.JobStatusOnHold,
		ActualStart: &started,
	}
	f.existingJob(job)

	var params jobrepo.StatusParams
	f.jobs.updateStatusFunc = func(_ context.Context, _, _ uuid.UUID, p jobrepo.StatusParams) error {
		params = p
		return nil
	}

	_, err := f.svc.UpdateStatus(f.ctx, job.ID, domain.JobStatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, params.ActualStart)
	assert.Equal(t, started, *params.ActualStart)
}

// ---------------------------------------------------------------------------
// Completion
// ---------------------------------------------------------------------------

func TestComplete(t *testing.T) {
	f := newFixture(t)

	started := testNow.Add(-2 * time.Hour)
	job := domain.Job{
		ID:          uuid.New(),
		AccountID:   f.accountID,
		Number:      "JOB-0042",
		Status:      domain.JobStatusInProgress,
		ActualStart: &started,
	}
	f.existingJob(job)

	var params jobrepo.StatusParams
	f.jobs.updateStatusFunc = func(_ context.Context, _, _ uuid.UUID, p jobrepo.StatusParams) error {
		params = p
		return nil
	}

	_, err := f.svc.Complete(f.ctx, job.ID, CompleteInput{
		Signature:  "data:image/png;base64,xyz",
		Notes:      "Heater replaced, old unit hauled away",
		ActualCost: ptr(1250.0),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, params.Status)
	assert.Equal(t, started, *params.ActualStart)
	assert.Equal(t, testNow, *params.ActualEnd)
	assert.Equal(t, 1250.0, *params.ActualCost)
	assert.Equal(t, "Heater replaced, old unit hauled away", params.CompletionNotes)

	require.Len(t, f.notifier.completed, 1, "invoicing is notified exactly once")
}

func TestComplete_BackfillsActualStartFromSchedule(t *testing.T) {
	f := newFixture(t)

	start := testNow.Add(-4 * time.Hour)
	end := testNow.Add(-1 * time.Hour)
	job := domain.Job{
		ID:             uuid.New(),
		AccountID:      f.accountID,
		Status:         domain.JobStatusScheduled,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	}
	f.existingJob(job)

	var params jobrepo.StatusParams
	f.jobs.updateStatusFunc = func(_ context.Context, _, _ uuid.UUID, p jobrepo.StatusParams) error {
		params = p
		return nil
	}

	_, err := f.svc.Complete(f.ctx, job.ID, CompleteInput{})
	require.NoError(t, err)
	require.NotNil(t, params.ActualStart)
	assert.Equal(t, start, *params.ActualStart, "actual start backfills from the schedule")
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusCompleted}
	f.existingJob(job)

	_, err := f.svc.Complete(f.ctx, job.ID, CompleteInput{})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Empty(t, f.notifier.completed)
}

func TestComplete_CancelledJob(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusCancelled}
	f.existingJob(job)

	_, err := f.svc.Complete(f.ctx, job.ID, CompleteInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDelete(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusScheduled}
	f.existingJob(job)
	f.invoices.existsForJobFunc = func(_ context.Context, _, _ uuid.UUID) (bool, error) {
		return false, nil
	}

	deleted := false
	f.jobs.softDeleteFunc = func(_ context.Context, _, _ uuid.UUID) error {
		deleted = true
		return nil
	}

	require.NoError(t, f.svc.Delete(f.ctx, job.ID))
	assert.True(t, deleted)
}

func TestDelete_CompletedJob(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusCompleted}
	f.existingJob(job)

	err := f.svc.Delete(f.ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDelete_InvoicedJob(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusInProgress}
	f.existingJob(job)
	f.invoices.existsForJobFunc = func(_ context.Context, _, _ uuid.UUID) (bool, error) {
		return true, nil
	}

	err := f.svc.Delete(f.ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---------------------------------------------------------------------------
// Photos
// ---------------------------------------------------------------------------

func TestAddPhoto(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusInProgress}
	f.existingJob(job)

	f.photos.countByJobFunc = func(_ context.Context, _ uuid.UUID) (int, error) {
		return 7, nil
	}
	f.photos.createFunc = func(_ context.Context, p domain.JobPhoto) (domain.JobPhoto, error) {
		p.ID = uuid.New()
		return p, nil
	}

	photo, err := f.svc.AddPhoto(f.ctx, job.ID, PhotoInput{URL: "https://cdn.example.com/p.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 7, photo.SortOrder, "sort order is the count at insert time")
	assert.Equal(t, 1, f.tx.calls, "count and insert share a transaction")
}

func TestAddPhoto_LimitReached(t *testing.T) {
	f := newFixture(t)

	job := domain.Job{ID: uuid.New(), AccountID: f.accountID, Status: domain.JobStatusInProgress}
	f.existingJob(job)

	f.photos.countByJobFunc = func(_ context.Context, _ uuid.UUID) (int, error) {
		return 30, nil
	}

	_, err := f.svc.AddPhoto(f.ctx, job.ID, PhotoInput{URL: "https://cdn.example.com/p.jpg"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeletePhoto_ForeignJob(t *testing.T) {
	f := newFixture(t)

	f.jobs.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (domain.Job, error) {
		return domain.Job{}, domain.ErrNotFound
	}

	err := f.svc.DeletePhoto(f.ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
