//go:build !integration

package web_test

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"translator-booking/internal/domain/model"
	"translator-booking/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockBookingUC implements usecase.BookingUseCase with overridable function
// fields. Unset fields return a zero job so handlers stay on the happy path.
type mockBookingUC struct {
	StoreFunc           func(ctx context.Context, caller model.Caller, in usecase.StoreJobInput) (*model.Job, error)
	ShowFunc            func(ctx context.Context, jobID string) (*model.Job, error)
	AcceptJobFunc       func(ctx context.Context, caller model.Caller, in usecase.AcceptJobInput) (*model.Job, error)
	AcceptJobWithIDFunc func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	StartJobFunc        func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	CancelJobFunc       func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	EndJobFunc          func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	CustomerNotCallFunc func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	ReopenFunc          func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error)
	UpdateJobFunc       func(ctx context.Context, caller model.Caller, jobID string, in usecase.UpdateJobInput) (*model.Job, error)
	UpdateJobEmailFunc  func(ctx context.Context, caller model.Caller, jobID string, in usecase.JobEmailInput) (*model.Job, error)

	GetPotentialJobsFunc    func(ctx context.Context, translator model.Caller) ([]*model.Job, error)
	GetUsersJobsFunc        func(ctx context.Context, userID string) ([]*model.Job, error)
	GetUsersJobsHistoryFunc func(ctx context.Context, userID string) ([]*model.Job, error)
	GetAllFunc              func(ctx context.Context, caller model.Caller, userID string) ([]*model.Job, error)

	RebroadcastStaleFunc func(ctx context.Context, olderThan time.Duration) (int, error)
	ExpireOverdueFunc    func(ctx context.Context) (int, error)
}

var _ usecase.BookingUseCase = (*mockBookingUC)(nil)

func stubJob() *model.Job {
	return &model.Job{
		ID:           "01TESTJOB0000000000000000A",
		Status:       model.JobStatusOpen,
		CustomerID:   "cust-1",
		FromLanguage: "english",
		ToLanguage:   "swedish",
		DueAt:        time.Now().Add(24 * time.Hour),
		Duration:     60,
		CreatedAt:    time.Now(),
	}
}

func (m *mockBookingUC) Store(ctx context.Context, caller model.Caller, in usecase.StoreJobInput) (*model.Job, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, caller, in)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) Show(ctx context.Context, jobID string) (*model.Job, error) {
	if m.ShowFunc != nil {
		return m.ShowFunc(ctx, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) AcceptJob(ctx context.Context, caller model.Caller, in usecase.AcceptJobInput) (*model.Job, error) {
	if m.AcceptJobFunc != nil {
		return m.AcceptJobFunc(ctx, caller, in)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) AcceptJobWithID(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.AcceptJobWithIDFunc != nil {
		return m.AcceptJobWithIDFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) StartJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.StartJobFunc != nil {
		return m.StartJobFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) CancelJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.CancelJobFunc != nil {
		return m.CancelJobFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) EndJob(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.EndJobFunc != nil {
		return m.EndJobFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) CustomerNotCall(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.CustomerNotCallFunc != nil {
		return m.CustomerNotCallFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) Reopen(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error) {
	if m.ReopenFunc != nil {
		return m.ReopenFunc(ctx, caller, jobID)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) UpdateJob(ctx context.Context, caller model.Caller, jobID string, in usecase.UpdateJobInput) (*model.Job, error) {
	if m.UpdateJobFunc != nil {
		return m.UpdateJobFunc(ctx, caller, jobID, in)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) UpdateJobEmail(ctx context.Context, caller model.Caller, jobID string, in usecase.JobEmailInput) (*model.Job, error) {
	if m.UpdateJobEmailFunc != nil {
		return m.UpdateJobEmailFunc(ctx, caller, jobID, in)
	}
	return stubJob(), nil
}

func (m *mockBookingUC) GetPotentialJobs(ctx context.Context, translator model.Caller) ([]*model.Job, error) {
	if m.GetPotentialJobsFunc != nil {
		return m.GetPotentialJobsFunc(ctx, translator)
	}
	return []*model.Job{}, nil
}

func (m *mockBookingUC) GetUsersJobs(ctx context.Context, userID string) ([]*model.Job, error) {
	if m.GetUsersJobsFunc != nil {
		return m.GetUsersJobsFunc(ctx, userID)
	}
	return []*model.Job{}, nil
}

func (m *mockBookingUC) GetUsersJobsHistory(ctx context.Context, userID string) ([]*model.Job, error) {
	if m.GetUsersJobsHistoryFunc != nil {
		return m.GetUsersJobsHistoryFunc(ctx, userID)
	}
	return []*model.Job{}, nil
}

func (m *mockBookingUC) GetAll(ctx context.Context, caller model.Caller, userID string) ([]*model.Job, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, caller, userID)
	}
	return []*model.Job{}, nil
}

func (m *mockBookingUC) RebroadcastStale(ctx context.Context, olderThan time.Duration) (int, error) {
	if m.RebroadcastStaleFunc != nil {
		return m.RebroadcastStaleFunc(ctx, olderThan)
	}
	return 0, nil
}

func (m *mockBookingUC) ExpireOverdue(ctx context.Context) (int, error) {
	if m.ExpireOverdueFunc != nil {
		return m.ExpireOverdueFunc(ctx)
	}
	return 0, nil
}

// mockTelemetryUC implements usecase.TelemetryUseCase.
type mockTelemetryUC struct {
	DistanceFeedFunc   func(ctx context.Context, caller model.Caller, in usecase.DistanceFeedInput) error
	RecordDistanceFunc func(ctx context.Context, jobID string, distance, elapsed float64) error
}

var _ usecase.TelemetryUseCase = (*mockTelemetryUC)(nil)

func (m *mockTelemetryUC) DistanceFeed(ctx context.Context, caller model.Caller, in usecase.DistanceFeedInput) error {
	if m.DistanceFeedFunc != nil {
		return m.DistanceFeedFunc(ctx, caller, in)
	}
	return nil
}

func (m *mockTelemetryUC) RecordDistance(ctx context.Context, jobID string, distance, elapsed float64) error {
	if m.RecordDistanceFunc != nil {
		return m.RecordDistanceFunc(ctx, jobID, distance, elapsed)
	}
	return nil
}

// mockNotificationUC implements usecase.NotificationUseCase.
type mockNotificationUC struct {
	BroadcastJobAvailableFunc func(ctx context.Context, job *model.Job) (int, error)
	NotifyAssignmentFunc      func(ctx context.Context, job *model.Job) error
	NotifyCancellationFunc    func(ctx context.Context, job *model.Job, formerTranslatorID string) error
	ConfirmJobEmailFunc       func(ctx context.Context, job *model.Job) error
	ResendNotificationFunc    func(ctx context.Context, jobID string) (int, error)
	ResendSMSFunc             func(ctx context.Context, jobID string) error
}

var _ usecase.NotificationUseCase = (*mockNotificationUC)(nil)

func (m *mockNotificationUC) BroadcastJobAvailable(ctx context.Context, job *model.Job) (int, error) {
	if m.BroadcastJobAvailableFunc != nil {
		return m.BroadcastJobAvailableFunc(ctx, job)
	}
	return 0, nil
}

func (m *mockNotificationUC) NotifyAssignment(ctx context.Context, job *model.Job) error {
	if m.NotifyAssignmentFunc != nil {
		return m.NotifyAssignmentFunc(ctx, job)
	}
	return nil
}

func (m *mockNotificationUC) NotifyCancellation(ctx context.Context, job *model.Job, formerTranslatorID string) error {
	if m.NotifyCancellationFunc != nil {
		return m.NotifyCancellationFunc(ctx, job, formerTranslatorID)
	}
	return nil
}

func (m *mockNotificationUC) ConfirmJobEmail(ctx context.Context, job *model.Job) error {
	if m.ConfirmJobEmailFunc != nil {
		return m.ConfirmJobEmailFunc(ctx, job)
	}
	return nil
}

func (m *mockNotificationUC) ResendNotification(ctx context.Context, jobID string) (int, error) {
	if m.ResendNotificationFunc != nil {
		return m.ResendNotificationFunc(ctx, jobID)
	}
	return 1, nil
}

func (m *mockNotificationUC) ResendSMS(ctx context.Context, jobID string) error {
	if m.ResendSMSFunc != nil {
		return m.ResendSMSFunc(ctx, jobID)
	}
	return nil
}
