package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry records a worker's tracked time, optionally against a job.
// A worker has at most one active entry (EndedAt == nil) at any moment.
type TimeEntry struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	WorkerID  uuid.UUID
	JobID     *uuid.UUID
	EntryType TimeEntryType
	Status    TimeEntryStatus

	StartedAt time.Time
	EndedAt   *time.Time
	// DurationMinutes is floor((EndedAt - StartedAt) in minutes).
	DurationMinutes *int

	Billable bool
	Notes    string

	ClockOutLocation string

	ApprovedBy *uuid.UUID
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the entry is still running.
func (e *TimeEntry) IsActive() bool { return e.EndedAt == nil }

// DurationMinutes returns the whole minutes between start and end,
// rounded down.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
