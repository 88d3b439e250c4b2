package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a scheduled unit of field work for a client.
type Job struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	ClientID    uuid.UUID
	QuoteID     *uuid.UUID
	ParentJobID *uuid.UUID
	Number      string
	Title       string
	Description string
	Address     string
	Status      JobStatus
	Priority    JobPriority

	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time

	AssigneeIDs []uuid.UUID

	EstimatedValue *float64
	ActualCost     *float64

	CompletionNotes     string
	CompletionSignature string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// HasSchedule reports whether both scheduled bounds are set.
func (j *Job) HasSchedule() bool {
	return j.ScheduledStart != nil && j.ScheduledEnd != nil
}

// JobPhoto is an image attached to a job. SortOrder is assigned at insert
// time as the job's photo count at that moment.
type JobPhoto struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	URL       string
	Caption   string
	SortOrder int
	CreatedAt time.Time
}
