// File: internal/usecase/booking_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
)

// Compile-time check
var _ BookingUseCase = (*bookingUC)(nil)

// Async runs a task off the calling goroutine. Notification dispatch goes
// through it so a state transition never waits for delivery. A nil Async
// makes the engine dispatch inline (tests, seed tooling).
type Async interface {
	Submit(task func(ctx context.Context) error) error
}

type StoreJobInput struct {
	FromLanguage string
	ToLanguage   string
	DueAt        time.Time
	Duration     int
}

// UpdateJobInput is the admin-only partial update. Status may only be set by
// a privileged caller, and only to Flagged on an Open job.
type UpdateJobInput struct {
	Status   *model.JobStatus
	Override model.AdminOverride
}

// BookingUseCase is the job lifecycle engine. Every state-mutating operation
// takes the authenticated caller explicitly; nothing is read from ambient
// request state.
type BookingUseCase interface {
	Store(ctx context.Context, caller model.Caller, in StoreJobInput) (*model.Job, error)
	Show(ctx context.Context, jobID string) (*model.Job, error)

	// AcceptJob and AcceptJobWithID share one claim path; the second exists
	// for a legacy calling convention that sends a bare id.
	AcceptJob(ctx context.Context, caller model.Caller, in AcceptJobInput) (*model.Job, error)
	AcceptJobWithID(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)

	// UpdateJobEmail changes where messages about the job are sent and
	// confirms the change to the new address.
	UpdateJobEmail(ctx context.Context, caller model.Caller, jobID string, in JobEmailInput) (*model.Job, error)

	StartJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	CancelJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	EndJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	CustomerNotCall(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	Reopen(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	UpdateJob(ctx context.Context, caller model.Caller, jobID string, in UpdateJobInput) (*model.Job, error)

	GetPotentialJobs(ctx context.Context, translator model.Caller) ([]*model.Job, error)
	GetUsersJobs(ctx context.Context, userID string) ([]*model.Job, error)
	GetUsersJobsHistory(ctx context.Context, userID string) ([]*model.Job, error)
	GetAll(ctx context.Context, caller model.Caller, userID string) ([]*model.Job, error)

	RebroadcastStale(ctx context.Context, olderThan time.Duration) (int, error)
	ExpireOverdue(ctx context.Context) (int, error)
}

type bookingUC struct {
	jobs  repository.JobRepository
	users repository.UserRepository
	notif NotificationUseCase
	tm    repository.TransactionManager
	async Async
	log   *zerolog.Logger
}

// NewBookingUseCase wires the lifecycle engine. tm may be nil, in which case
// multi-statement updates run without a surrounding transaction.
func NewBookingUseCase(
	jobs repository.JobRepository,
	users repository.UserRepository,
	notif NotificationUseCase,
	tm repository.TransactionManager,
	async Async,
	logger *zerolog.Logger,
) *bookingUC {
	l := logger.With().Str("component", "BookingUC").Logger()
	return &bookingUC{jobs: jobs, users: users, notif: notif, tm: tm, async: async, log: &l}
}

func (uc *bookingUC) Store(ctx context.Context, caller model.Caller, in StoreJobInput) (*model.Job, error) {
	if in.FromLanguage == "" {
		return nil, fmt.Errorf("%w: from_language is required", domain.ErrValidation)
	}
	if in.ToLanguage == "" {
		return nil, fmt.Errorf("%w: to_language is required", domain.ErrValidation)
	}
	if in.DueAt.IsZero() {
		return nil, fmt.Errorf("%w: due_at is required", domain.ErrValidation)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}

	now := time.Now()
	job := &model.Job{
		ID:           model.NewJobID(),
		Status:       model.JobStatusCreated,
		CustomerID:   caller.ID,
		FromLanguage: in.FromLanguage,
		ToLanguage:   in.ToLanguage,
		DueAt:        in.DueAt,
		Duration:     in.Duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Publish is implicit: a stored job is immediately claimable.
	job.Status = model.JobStatusOpen

	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	uc.dispatch(ctx, "store", func(ctx context.Context) error {
		_, err := uc.notif.BroadcastJobAvailable(ctx, job)
		return err
	})
	return job, nil
}

func (uc *bookingUC) Show(ctx context.Context, jobID string) (*model.Job, error) {
	return uc.jobs.FindByID(ctx, repository.NoTX, jobID)
}

// JobEmailInput carries the replacement contact address for a job.
type JobEmailInput struct {
	Email string
}

func (uc *bookingUC) UpdateJobEmail(ctx context.Context, caller model.Caller, jobID string, in JobEmailInput) (*model.Job, error) {
	addr := strings.TrimSpace(in.Email)
	if addr == "" {
		return nil, fmt.Errorf("%w: user_email is required", domain.ErrValidation)
	}
	if !strings.Contains(addr, "@") {
		return nil, fmt.Errorf("%w: user_email is not a valid address", domain.ErrValidation)
	}
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	job.ContactEmail = &addr
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	uc.dispatch(ctx, "job_email", func(ctx context.Context) error {
		return uc.notif.ConfirmJobEmail(ctx, job)
	})
	return job, nil
}

func (uc *bookingUC) StartJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusAssigned {
		return nil, fmt.Errorf("%w: cannot start a %s job", domain.ErrInvalidTransition, job.Status)
	}
	job.Status = model.JobStatusInProgress
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	return job, nil
}

/// CancelJob is idempotent for already-cancelled jobs: it succeeds without
// touching storage or re-firing notifications.
func (uc *bookingUC) CancelJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == model.JobStatusCancelled {
		return job, nil
	}
	if job.Status == model.JobStatusCompleted || job.Status == model.JobStatusNoShow {
		return nil, fmt.Errorf("%w: cannot cancel a %s job", domain.ErrInvalidTransition, job.Status)
	}

	var former string
	if job.AssignedTranslatorID != nil {
		former = *job.AssignedTranslatorID
	}
	job.Status = model.JobStatusCancelled
	job.AssignedTranslatorID = nil
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	uc.dispatch(ctx, "cancel", func(ctx context.Context) error {
		return uc.notif.NotifyCancellation(ctx, job, former)
	})
	return job, nil
}

func (uc *bookingUC) EndJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.Active() {
		return nil, fmt.Errorf("%w: cannot end a %s job", domain.ErrInvalidTransition, job.Status)
	}

	now := time.Now()
	job.Status = model.JobStatusCompleted
	job.CompletedAt = &now
	job.UpdatedAt = now
	// Telemetry snapshot: elapsed session time relative to the booked start.
	if elapsed := now.Sub(job.DueAt); elapsed > 0 {
		minutes := elapsed.Minutes()
		job.ElapsedTime = &minutes
		if job.SessionTime == nil {
			st := formatSessionTime(elapsed)
			job.SessionTime = &st
		}
	}
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *bookingUC) CustomerNotCall(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.Active() {
		return nil, fmt.Errorf("%w: cannot mark a %s job as no-show", domain.ErrInvalidTransition, job.Status)
	}
	job.Status = model.JobStatusNoShow
	job.AssignedTranslatorID = nil
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Reopen returns a cancelled or no-show job to the open pool. A completed
// job can never be reopened.
func (uc *bookingUC) Reopen(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.Reopenable() {
		return nil, fmt.Errorf("%w: cannot reopen a %s job", domain.ErrInvalidTransition, job.Status)
	}
	job.Status = model.JobStatusOpen
	job.AssignedTranslatorID = nil
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, err
	}
	uc.dispatch(ctx, "reopen", func(ctx context.Context) error {
		_, err := uc.notif.BroadcastJobAvailable(ctx, job)
		return err
	})
	return job, nil
}

func (uc *bookingUC) UpdateJob(ctx context.Context, caller model.Caller, jobID string, in UpdateJobInput) (*model.Job, error) {
	if !caller.Role.Privileged() {
		return nil, domain.ErrUnauthorized
	}
	job, err := uc.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		// The only direct status write an admin may perform is flagging an
		// open job; everything else must go through a lifecycle operation.
		if *in.Status != model.JobStatusFlagged || job.Status != model.JobStatusOpen {
			return nil, fmt.Errorf("%w: status %s cannot be set directly on a %s job",
				domain.ErrInvalidTransition, *in.Status, job.Status)
		}
	}

	// The status write and the override patch must land together.
	apply := func(ctx context.Context, tx repository.Tx) error {
		if in.Status != nil {
			job.Status = model.JobStatusFlagged
			job.UpdatedAt = time.Now()
			if err := uc.jobs.Save(ctx, tx, job); err != nil {
				return err
			}
		}
		if !in.Override.Empty() {
			edited := true
			in.Override.EditedByAdmin = &edited
			return uc.jobs.ApplyOverride(ctx, tx, jobID, in.Override)
		}
		return nil
	}
	if uc.tm != nil {
		if err := uc.tm.WithTx(ctx, pgx.TxOptions{}, apply); err != nil {
			return nil, err
		}
	} else if err := apply(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	return uc.jobs.FindByID(ctx, repository.NoTX, jobID)
}

func (uc *bookingUC) GetPotentialJobs(ctx context.Context, translator model.Caller) ([]*model.Job, error) {
	open, err := uc.jobs.List(ctx, repository.NoTX, repository.JobFilter{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Job, 0, len(open))
	for _, job := range open {
		ok, err := uc.users.IsEligible(ctx, repository.NoTX, translator.ID, job)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, job)
		}
	}
	return out, nil
}

func (uc *bookingUC) GetUsersJobs(ctx context.Context, userID string) ([]*model.Job, error) {
	return uc.jobs.List(ctx, repository.NoTX, repository.JobFilter{
		UserID: userID,
		Statuses: []model.JobStatus{
			model.JobStatusOpen, model.JobStatusAssigned,
			model.JobStatusInProgress, model.JobStatusFlagged,
		},
	})
}

func (uc *bookingUC) GetUsersJobsHistory(ctx context.Context, userID string) ([]*model.Job, error) {
	return uc.jobs.List(ctx, repository.NoTX, repository.JobFilter{
		UserID:       userID,
		TerminalOnly: true,
	})
}

// GetAll serves the admin listing. Unprivileged callers without a user_id
// filter get an empty result, not an error.
func (uc *bookingUC) GetAll(ctx context.Context, caller model.Caller, userID string) ([]*model.Job, error) {
	if userID != "" {
		return uc.GetUsersJobs(ctx, userID)
	}
	if !caller.Role.Privileged() {
		return []*model.Job{}, nil
	}
	return uc.jobs.List(ctx, repository.NoTX, repository.JobFilter{})
}

// RebroadcastStale re-announces jobs that have sat open longer than the
// threshold and are still due in the future.
func (uc *bookingUC) RebroadcastStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	stale, err := uc.jobs.FindOpenOlderThan(ctx, repository.NoTX, cutoff)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, job := range stale {
		if job.DueAt.Before(time.Now()) {
			continue // expiry worker's problem
		}
		if _, err := uc.notif.BroadcastJobAvailable(ctx, job); err != nil {
			uc.log.Error().Err(err).Str("job_id", job.ID).Msg("stale re-broadcast failed")
			continue
		}
		n++
	}
	return n, nil
}

// ExpireOverdue cancels open jobs whose booked time has already passed.
func (uc *bookingUC) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	open, err := uc.jobs.List(ctx, repository.NoTX, repository.JobFilter{OpenOnly: true})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, job := range open {
		if !job.DueAt.Before(now) {
			continue
		}
		job.Status = model.JobStatusCancelled
		job.UpdatedAt = now
		if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
			uc.log.Error().Err(err).Str("job_id", job.ID).Msg("expire overdue job failed")
			continue
		}
		n++
	}
	return n, nil
}

// dispatch runs a notification task without blocking the transition. Delivery
// failures are logged, never propagated: the state change already happened.
func (uc *bookingUC) dispatch(ctx context.Context, op string, task func(ctx context.Context) error) {
	wrapped := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := task(ctx); err != nil && !errors.Is(err, context.Canceled) {
			uc.log.Error().Err(err).Str("operation", op).Msg("notification dispatch failed")
		}
		return nil
	}
	if uc.async == nil {
		_ = wrapped(ctx)
		return
	}
	if err := uc.async.Submit(wrapped); err != nil {
		uc.log.Error().Err(err).Str("operation", op).Msg("notification task not accepted")
	}
}

func formatSessionTime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
