package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	const q = `
INSERT INTO users (id, role, name, email, phone, languages, registered_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  languages = EXCLUDED.languages;`

	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, string(u.Role), u.Name, u.Email, u.Phone, u.Languages, u.RegisteredAt)
	return err
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT id, role, name, email, phone, languages, registered_at FROM users WHERE id = $1`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

// EligibleTranslators returns translators covering both languages of the job.
// Availability windows and qualification levels live outside this core; the
// language pair is the predicate the schema can answer.
func (r *userRepo) EligibleTranslators(ctx context.Context, tx repository.Tx, job *model.Job) ([]*model.User, error) {
	const q = `
SELECT id, role, name, email, phone, languages, registered_at
FROM users
WHERE role = $1 AND languages @> ARRAY[$2, $3]::text[]
ORDER BY id`

	rows, err := runQuery(ctx, r.pool, tx, q, string(model.RoleTranslator), job.FromLanguage, job.ToLanguage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) IsEligible(ctx context.Context, tx repository.Tx, translatorID string, job *model.Job) (bool, error) {
	const q = `
SELECT EXISTS(
    SELECT 1 FROM users
    WHERE id = $1 AND role = $2 AND languages @> ARRAY[$3, $4]::text[]
)`
	row, err := pickRow(ctx, r.pool, tx, q, translatorID, string(model.RoleTranslator), job.FromLanguage, job.ToLanguage)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u       model.User
		roleStr string
	)
	err := row.Scan(&u.ID, &roleStr, &u.Name, &u.Email, &u.Phone, &u.Languages, &u.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	u.Role = model.Role(roleStr)
	return &u, nil
}
