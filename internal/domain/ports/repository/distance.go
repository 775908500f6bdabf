package repository

import (
	"context"

	"translator-booking/internal/domain/model"
)

type DistanceRepository interface {
	// Upsert writes the distance/time pair for a job, replacing any
	// previous sample. Lifecycle state of the job is not consulted.
	Upsert(ctx context.Context, tx Tx, sample model.DistanceSample) error
	FindByJobID(ctx context.Context, tx Tx, jobID string) (*model.DistanceSample, error)
}
