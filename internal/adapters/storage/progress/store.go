package progress

import (
	"context"

	progressDomain "shiftboard/internal/domain/progress"
	shiftDomain "shiftboard/internal/domain/shift"
)

// Store persists Progress state.
type Store interface {
	GetByStep(ctx context.Context, userID, shiftID, stepID string) (progressDomain.Progress, error)
	ListByUserAndShift(ctx context.Context, userID, shiftID string) ([]progressDomain.Progress, error)
	Save(ctx context.Context, value progressDomain.Progress) error
	InsertBatch(ctx context.Context, values []progressDomain.Progress) error
	DeleteByUserAndShift(ctx context.Context, userID, shiftID string) error
	DeleteByShift(ctx context.Context, shiftID string) error
	CurrentIncompleteShift(ctx context.Context, userID string) (shiftDomain.Shift, error)
}
