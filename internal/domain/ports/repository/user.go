package repository

import (
	"context"

	"translator-booking/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)

	// EligibleTranslators returns the translators currently allowed to claim
	// the job. Qualification and availability rules live behind this port.
	EligibleTranslators(ctx context.Context, tx Tx, job *model.Job) ([]*model.User, error)

	// IsEligible reports whether a single translator is in the job's
	// eligibility set.
	IsEligible(ctx context.Context, tx Tx, translatorID string, job *model.Job) (bool, error)
}
