package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type JobStatus string

const (
	JobStatusCreated    JobStatus = "created"
	JobStatusOpen       JobStatus = "open"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusNoShow     JobStatus = "no_show"
	JobStatusFlagged    JobStatus = "flagged"
)

// Job is a booking for a translation session. It is created by a customer,
// published to eligible translators and claimed by at most one of them.
type Job struct {
	ID                   string
	Status               JobStatus
	CustomerID           string
	AssignedTranslatorID *string
	FromLanguage         string
	ToLanguage           string
	DueAt                time.Time
	Duration             int // minutes requested by the customer

	// ContactEmail overrides the customer's account address for messages
	// about this job. Nil means notify the account address.
	ContactEmail *string

	Distance    *float64
	ElapsedTime *float64

	AdminComments   *string
	Flagged         bool
	ManuallyHandled bool
	EditedByAdmin   bool
	SessionTime     *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewJobID returns a ULID so that lexicographic order matches creation order.
func NewJobID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// IsTerminal reports whether no further lifecycle transition is expected.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusCancelled, JobStatusNoShow:
		return true
	}
	return false
}

// Reopenable reports whether a job in this status may return to Open.
// Completed jobs never reopen.
func (s JobStatus) Reopenable() bool {
	return s == JobStatusCancelled || s == JobStatusNoShow
}

// Active reports whether a translator currently holds the job.
func (s JobStatus) Active() bool {
	switch s {
	case JobStatusAssigned, JobStatusInProgress:
		return true
	}
	return false
}

// AllowsAssignee reports whether the status permits a non-nil assignee.
// This is the status half of the assignee invariant.
func (s JobStatus) AllowsAssignee() bool {
	switch s {
	case JobStatusAssigned, JobStatusInProgress, JobStatusCompleted:
		return true
	}
	return false
}

// InvariantOK checks that the assignee and status agree: a translator is
// recorded iff the job is Assigned, InProgress or Completed.
func (j *Job) InvariantOK() bool {
	return (j.AssignedTranslatorID != nil) == j.Status.AllowsAssignee()
}
