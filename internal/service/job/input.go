package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
)

// CreateInput holds the parameters for creating a job.
type CreateInput struct {
	ClientID       uuid.UUID
	QuoteID        *uuid.UUID
	ParentJobID    *uuid.UUID
	Title          string
	Description    string
	Address        string
	Priority       *domain.JobPriority
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AssigneeIDs    []uuid.UUID
	EstimatedValue *float64
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate(maxAssignees int) error {
	var errs []domain.FieldError

	if i.ClientID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "client_id", Message: "required"})
	}
	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 500 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 500)"})
	}
	if i.Priority != nil && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "invalid value"})
	}
	errs = append(errs, validateScheduleBounds(i.ScheduledStart, i.ScheduledEnd)...)
	errs = append(errs, validateAssigneeList(i.AssigneeIDs, maxAssignees)...)
	if i.EstimatedValue != nil && *i.EstimatedValue < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_value", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds the optional fields of a generic job update.
type UpdateInput struct {
	Title          *string
	Description    *string
	Address        *string
	Priority       *domain.JobPriority
	EstimatedValue *float64
}

// Validate checks all fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Title != nil {
		if *i.Title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
		} else if len(*i.Title) > 500 {
			errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 500)"})
		}
	}
	if i.Priority != nil && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "invalid value"})
	}
	if i.EstimatedValue != nil && *i.EstimatedValue < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_value", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ScheduleInput holds the parameters for rescheduling a job. Assignees are
// replaced together with the window; nil leaves the current team in place.
type ScheduleInput struct {
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AssigneeIDs    []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *ScheduleInput) Validate(maxAssignees int) error {
	var errs []domain.FieldError

	errs = append(errs, validateScheduleBounds(i.ScheduledStart, i.ScheduledEnd)...)
	errs = append(errs, validateAssigneeList(i.AssigneeIDs, maxAssignees)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CompleteInput holds the parameters for completing a job.
type CompleteInput struct {
	Signature  string
	Notes      string
	ActualCost *float64
}

// Validate checks all fields and collects all errors.
func (i *CompleteInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Notes) > 5000 {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}
	if i.ActualCost != nil && *i.ActualCost < 0 {
		errs = append(errs, domain.FieldError{Field: "actual_cost", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PhotoInput holds the parameters for attaching a photo to a job.
type PhotoInput struct {
	URL     string
	Caption string
}

// Validate checks all fields and collects all errors.
func (i *PhotoInput) Validate() error {
	var errs []domain.FieldError

	if i.URL == "" {
		errs = append(errs, domain.FieldError{Field: "url", Message: "required"})
	} else if len(i.URL) > 2000 {
		errs = append(errs, domain.FieldError{Field: "url", Message: "too long (max 2000)"})
	}
	if len(i.Caption) > 500 {
		errs = append(errs, domain.FieldError{Field: "caption", Message: "too long (max 500)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// validateScheduleBounds enforces both-or-neither bounds with end strictly
// after start.
func validateScheduleBounds(start, end *time.Time) []domain.FieldError {
	var errs []domain.FieldError

	if (start == nil) != (end == nil) {
		errs = append(errs, domain.FieldError{Field: "scheduled_end", Message: "both schedule bounds must be set together"})
	} else if start != nil && !end.After(*start) {
		errs = append(errs, domain.FieldError{Field: "scheduled_end", Message: "must be after scheduled_start"})
	}
	return errs
}

func validateAssigneeList(ids []uuid.UUID, max int) []domain.FieldError {
	var errs []domain.FieldError

	if len(ids) > max {
		errs = append(errs, domain.FieldError{Field: "assignee_ids", Message: "too many"})
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "assignee_ids", Message: "contains empty id"})
			break
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.FieldError{Field: "assignee_ids", Message: "contains duplicate id"})
			break
		}
		seen[id] = struct{}{}
	}
	return errs
}
