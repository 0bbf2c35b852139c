package domain

import "context"

// EnvironmentRepository wipes event data for development resets.
type EnvironmentRepository interface {
	ResetEventData(ctx context.Context) error
}

// EnvironmentService exposes the development-only data reset.
type EnvironmentService interface {
	Reset(ctx context.Context) error
}
