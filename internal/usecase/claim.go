// File: internal/usecase/claim.go
package usecase

import (
	"context"
	"fmt"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
	"translator-booking/internal/infra/metrics"
)

type AcceptJobInput struct {
	JobID string
}

func (uc *bookingUC) AcceptJob(ctx context.Context, caller model.Caller, in AcceptJobInput) (*model.Job, error) {
	if in.JobID == "" {
		return nil, fmt.Errorf("%w: job_id is required", domain.ErrValidation)
	}
	return uc.claim(ctx, caller, in.JobID)
}

func (uc *bookingUC) AcceptJobWithID(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job_id is required", domain.ErrValidation)
	}
	return uc.claim(ctx, caller, jobID)
}

// claim resolves concurrent accept attempts into a single winner. The
// decision point is TryAssign: a conditional update that flips the job to
// Assigned only while it is still Open and unassigned. Everything before it
// is a fast pre-check; losing at apply time wins over any earlier read.
func (uc *bookingUC) claim(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}

	eligible, err := uc.users.IsEligible(ctx, repository.NoTX, caller.ID, job)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.ErrNotEligible
	}

	if job.AssignedTranslatorID != nil {
		metrics.IncClaim("lost")
		return nil, domain.ErrAlreadyAssigned
	}
	if job.Status != model.JobStatusOpen {
		return nil, fmt.Errorf("%w: cannot accept a %s job", domain.ErrInvalidTransition, job.Status)
	}

	won, err := uc.jobs.TryAssign(ctx, jobID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		metrics.IncClaim("lost")
		return nil, domain.ErrAlreadyAssigned
	}
	metrics.IncClaim("won")

	job, err = uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	uc.dispatch(ctx, "accept", func(ctx context.Context) error {
		return uc.notif.NotifyAssignment(ctx, job)
	})
	return job, nil
}
