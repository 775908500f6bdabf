package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

const jobColumns = `id, status, customer_id, translator_id, from_language, to_language,
due_at, duration, contact_email, distance, elapsed_time, admin_comments, flagged,
manually_handled, edited_by_admin, session_time, created_at, updated_at, completed_at`

func (r *jobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if job.ID == "" {
		job.ID = model.NewJobID()
	}
	job.UpdatedAt = time.Now()

	const q = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  translator_id = EXCLUDED.translator_id,
  contact_email = EXCLUDED.contact_email,
  distance = EXCLUDED.distance,
  elapsed_time = EXCLUDED.elapsed_time,
  admin_comments = EXCLUDED.admin_comments,
  flagged = EXCLUDED.flagged,
  manually_handled = EXCLUDED.manually_handled,
  edited_by_admin = EXCLUDED.edited_by_admin,
  session_time = EXCLUDED.session_time,
  updated_at = EXCLUDED.updated_at,
  completed_at = EXCLUDED.completed_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.Status, job.CustomerID, job.AssignedTranslatorID,
		job.FromLanguage, job.ToLanguage, job.DueAt, job.Duration,
		job.ContactEmail, job.Distance, job.ElapsedTime, job.AdminComments,
		job.Flagged, job.ManuallyHandled, job.EditedByAdmin, job.SessionTime,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt)
	return err
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	const q = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *jobRepo) List(ctx context.Context, tx repository.Tx, f repository.JobFilter) ([]*model.Job, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.UserID != "" {
		p := arg(f.UserID)
		conds = append(conds, fmt.Sprintf("(customer_id = %s OR translator_id = %s)", p, p))
	}
	if f.OpenOnly {
		conds = append(conds, fmt.Sprintf("status = %s", arg(string(model.JobStatusOpen))))
	}
	if f.TerminalOnly {
		conds = append(conds, fmt.Sprintf("status IN (%s, %s, %s)",
			arg(string(model.JobStatusCompleted)),
			arg(string(model.JobStatusCancelled)),
			arg(string(model.JobStatusNoShow))))
	}
	if len(f.Statuses) > 0 {
		ps := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			ps[i] = arg(string(s))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(ps, ", ")))
	}

	q := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	// ULIDs sort by creation time, so id order is insertion order.
	q += " ORDER BY id"

	rows, err := runQuery(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// TryAssign is the claim race's single decision point. The WHERE clause only
// matches a still-open, unassigned row; with two concurrent callers the row
// lock serializes them and the second sees zero rows affected.
func (r *jobRepo) TryAssign(ctx context.Context, jobID, translatorID string) (bool, error) {
	const q = `
UPDATE jobs
SET status = $3, translator_id = $2, updated_at = now()
WHERE id = $1 AND status = $4 AND translator_id IS NULL`

	tag, err := execSQL(ctx, r.pool, repository.NoTX, q,
		jobID, translatorID, string(model.JobStatusAssigned), string(model.JobStatusOpen))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *jobRepo) ApplyOverride(ctx context.Context, tx repository.Tx, jobID string, o model.AdminOverride) error {
	var (
		sets []string
		args []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if o.AdminComments != nil {
		sets = append(sets, "admin_comments = "+arg(*o.AdminComments))
	}
	if o.Flagged != nil {
		sets = append(sets, "flagged = "+arg(*o.Flagged))
	}
	if o.SessionTime != nil {
		sets = append(sets, "session_time = "+arg(*o.SessionTime))
	}
	if o.ManuallyHandled != nil {
		sets = append(sets, "manually_handled = "+arg(*o.ManuallyHandled))
	}
	if o.EditedByAdmin != nil {
		sets = append(sets, "edited_by_admin = "+arg(*o.EditedByAdmin))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")

	q := fmt.Sprintf("UPDATE jobs SET %s WHERE id = %s", strings.Join(sets, ", "), arg(jobID))
	tag, err := execSQL(ctx, r.pool, tx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) FindOpenOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) ([]*model.Job, error) {
	const q = `SELECT ` + jobColumns + ` FROM jobs WHERE status = $1 AND created_at < $2 ORDER BY id`
	rows, err := runQuery(ctx, r.pool, tx, q, string(model.JobStatusOpen), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job       model.Job
		statusStr string
	)
	err := row.Scan(
		&job.ID, &statusStr, &job.CustomerID, &job.AssignedTranslatorID,
		&job.FromLanguage, &job.ToLanguage, &job.DueAt, &job.Duration,
		&job.ContactEmail, &job.Distance, &job.ElapsedTime, &job.AdminComments,
		&job.Flagged, &job.ManuallyHandled, &job.EditedByAdmin, &job.SessionTime,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	job.Status = model.JobStatus(statusStr)
	return &job, nil
}
