package domain

import "errors"

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("already exists")
	ErrAlreadyConfirmed  = errors.New("invite already answered")
	ErrDeadlinePassed    = errors.New("confirmation deadline has passed")
	ErrEnvironmentLocked = errors.New("environment reset is only allowed in development")
)
