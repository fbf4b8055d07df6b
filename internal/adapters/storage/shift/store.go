package shift

import (
	"context"

	domain "shiftboard/internal/domain/shift"
)

// Store persists Shift templates and their ordered steps.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Shift, error)
	Save(ctx context.Context, value domain.Shift) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Shift, error)

	ListSteps(ctx context.Context, shiftID string) ([]domain.Step, error)
	ReplaceSteps(ctx context.Context, shiftID string, steps []domain.Step) error
	DeleteSteps(ctx context.Context, shiftID string) error
}
