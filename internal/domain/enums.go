package domain

// JobStatus represents the lifecycle state of a job.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusEnRoute    JobStatus = "en_route"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusOnHold     JobStatus = "on_hold"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusScheduled, JobStatusEnRoute, JobStatusInProgress,
		JobStatusOnHold, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// jobTransitions is the closed transition table for the generic status
// update path. completed does NOT appear as a target anywhere: it is
// reachable only through the dedicated completion operation.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusScheduled:  {JobStatusEnRoute, JobStatusInProgress, JobStatusOnHold, JobStatusCancelled},
	JobStatusEnRoute:    {JobStatusInProgress, JobStatusOnHold, JobStatusCancelled},
	JobStatusInProgress: {JobStatusOnHold, JobStatusCancelled},
	JobStatusOnHold:     {JobStatusScheduled, JobStatusInProgress, JobStatusCancelled},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

// CanTransitionTo reports whether the generic status-update operation may
// move a job from s to target.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// JobPriority represents the urgency of a job.
type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

func (p JobPriority) String() string { return string(p) }

func (p JobPriority) IsValid() bool {
	switch p {
	case JobPriorityLow, JobPriorityNormal, JobPriorityHigh, JobPriorityUrgent:
		return true
	}
	return false
}

// QuoteStatus represents the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusDeclined  QuoteStatus = "declined"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusConverted QuoteStatus = "converted"
)

func (s QuoteStatus) String() string { return string(s) }

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved,
		QuoteStatusDeclined, QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
// approved is not terminal: its single forward edge is converted.
func (s QuoteStatus) IsTerminal() bool {
	switch s {
	case QuoteStatusDeclined, QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:     {QuoteStatusSent},
	QuoteStatusSent:      {QuoteStatusApproved, QuoteStatusDeclined, QuoteStatusExpired},
	QuoteStatusApproved:  {QuoteStatusConverted},
	QuoteStatusDeclined:  {},
	QuoteStatusExpired:   {},
	QuoteStatusConverted: {},
}

// CanTransitionTo reports whether a quote may move from s to target.
// No target ever re-enters draft.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TimeEntryStatus represents the approval state of a time entry.
type TimeEntryStatus string

const (
	TimeEntryStatusPending  TimeEntryStatus = "pending"
	TimeEntryStatusApproved TimeEntryStatus = "approved"
	TimeEntryStatusRejected TimeEntryStatus = "rejected"
)

func (s TimeEntryStatus) String() string { return string(s) }

func (s TimeEntryStatus) IsValid() bool {
	switch s {
	case TimeEntryStatusPending, TimeEntryStatusApproved, TimeEntryStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s TimeEntryStatus) IsTerminal() bool {
	return s == TimeEntryStatusApproved || s == TimeEntryStatusRejected
}

// TimeEntryType distinguishes clock-driven entries from manual ones.
type TimeEntryType string

const (
	TimeEntryTypeJob    TimeEntryType = "job"
	TimeEntryTypeManual TimeEntryType = "manual"
)

func (t TimeEntryType) String() string { return string(t) }

func (t TimeEntryType) IsValid() bool {
	switch t {
	case TimeEntryTypeJob, TimeEntryTypeManual:
		return true
	}
	return false
}

// DocumentType scopes a business-number sequence within an account.
type DocumentType string

const (
	DocumentTypeJob     DocumentType = "job"
	DocumentTypeQuote   DocumentType = "quote"
	DocumentTypeInvoice DocumentType = "invoice"
)

func (d DocumentType) String() string { return string(d) }

func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeJob, DocumentTypeQuote, DocumentTypeInvoice:
		return true
	}
	return false
}

// DefaultPrefix returns the human-readable prefix seeded on first allocation.
func (d DocumentType) DefaultPrefix() string {
	switch d {
	case DocumentTypeJob:
		return "JOB"
	case DocumentTypeQuote:
		return "QUO"
	case DocumentTypeInvoice:
		return "INV"
	}
	return "DOC"
}
