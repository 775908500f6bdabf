package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrValidation        = errors.New("invalid or missing input")
	ErrNotEligible       = errors.New("translator is not eligible for this job")
	ErrAlreadyAssigned   = errors.New("job is already assigned to another translator")
	ErrInvalidTransition = errors.New("operation not allowed from current job status")
	ErrUnauthorized      = errors.New("caller lacks the role for this operation")
	ErrNoAssignee        = errors.New("job has no assigned translator")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInvalidArgument   = errors.New("invalid argument")

	// Infra-level faults surfaced through repositories
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context passed to repository")
)
