// File: internal/usecase/telemetry_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
)

// Compile-time check
var _ TelemetryUseCase = (*telemetryUC)(nil)

// DistanceFeedInput carries the optional distance/time pair and the optional
// admin override group. Absent fields are nil.
type DistanceFeedInput struct {
	JobID    string
	Distance *float64
	Time     *float64
	Override model.AdminOverride
}

// TelemetryUseCase records distance/time samples and admin annotations.
// It runs independently of the lifecycle: admins may annotate completed jobs.
type TelemetryUseCase interface {
	DistanceFeed(ctx context.Context, caller model.Caller, in DistanceFeedInput) error
	RecordDistance(ctx context.Context, jobID string, distance, elapsed float64) error
}

type telemetryUC struct {
	distances repository.DistanceRepository
	jobs      repository.JobRepository
	log       *zerolog.Logger
}

func NewTelemetryUseCase(distances repository.DistanceRepository, jobs repository.JobRepository, logger *zerolog.Logger) *telemetryUC {
	l := logger.With().Str("component", "TelemetryUC").Logger()
	return &telemetryUC{distances: distances, jobs: jobs, log: &l}
}

// DistanceFeed writes the distance/time pair only when both values are
// present, and the admin field group only when at least one field is set.
// A request carrying neither performs no storage write at all.
func (uc *telemetryUC) DistanceFeed(ctx context.Context, caller model.Caller, in DistanceFeedInput) error {
	if in.JobID == "" {
		return fmt.Errorf("%w: job_id is required", domain.ErrValidation)
	}

	if in.Distance != nil && in.Time != nil {
		if err := uc.RecordDistance(ctx, in.JobID, *in.Distance, *in.Time); err != nil {
			return err
		}
	}

	if !in.Override.Empty() {
		if err := uc.jobs.ApplyOverride(ctx, repository.NoTX, in.JobID, in.Override); err != nil {
			return err
		}
	}
	return nil
}

func (uc *telemetryUC) RecordDistance(ctx context.Context, jobID string, distance, elapsed float64) error {
	if distance < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: time must not be negative", domain.ErrValidation)
	}
	return uc.distances.Upsert(ctx, repository.NoTX, model.DistanceSample{
		JobID:    jobID,
		Distance: distance,
		Time:     elapsed,
	})
}
