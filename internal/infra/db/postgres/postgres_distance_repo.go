package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
)

var _ repository.DistanceRepository = (*distanceRepo)(nil)

type distanceRepo struct {
	pool *pgxpool.Pool
}

func NewDistanceRepo(pool *pgxpool.Pool) *distanceRepo {
	return &distanceRepo{pool: pool}
}

func (r *distanceRepo) Upsert(ctx context.Context, tx repository.Tx, sample model.DistanceSample) error {
	const q = `
INSERT INTO distances (job_id, distance, time)
VALUES ($1, $2, $3)
ON CONFLICT (job_id) DO UPDATE SET
  distance = EXCLUDED.distance,
  time = EXCLUDED.time;`

	_, err := execSQL(ctx, r.pool, tx, q, sample.JobID, sample.Distance, sample.Time)
	return err
}

func (r *distanceRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string) (*model.DistanceSample, error) {
	const q = `SELECT job_id, distance, time FROM distances WHERE job_id = $1`
	row, err := pickRow(ctx, r.pool, tx, q, jobID)
	if err != nil {
		return nil, err
	}
	var s model.DistanceSample
	if err := row.Scan(&s.JobID, &s.Distance, &s.Time); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}
