package repository

import (
	"context"
	"time"

	"translator-booking/internal/domain/model"
)

// JobFilter narrows listings. A zero filter means "everything".
type JobFilter struct {
	UserID       string // jobs where the user is customer or assignee
	Statuses     []model.JobStatus
	TerminalOnly bool
	OpenOnly     bool
}

type JobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)
	// List returns jobs matching the filter in creation order.
	List(ctx context.Context, tx Tx, f JobFilter) ([]*model.Job, error)

	// TryAssign atomically sets the assignee and moves the job to Assigned,
	// but only if the job is still Open with no assignee. It reports whether
	// this caller won the claim. Losing the race is not an error.
	TryAssign(ctx context.Context, jobID, translatorID string) (won bool, err error)

	// ApplyOverride writes the non-nil fields of the override. Callers must
	// skip the call entirely when the override is empty.
	ApplyOverride(ctx context.Context, tx Tx, jobID string, o model.AdminOverride) error

	// FindOpenOlderThan returns Open jobs created before the cutoff,
	// used by the re-broadcast and expiry workers.
	FindOpenOlderThan(ctx context.Context, tx Tx, cutoff time.Time) ([]*model.Job, error)
}
