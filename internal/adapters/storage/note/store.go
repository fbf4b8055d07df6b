package note

import (
	"context"

	domain "shiftboard/internal/domain/note"
)

// Store persists Note state.
type Store interface {
	Save(ctx context.Context, value domain.Note) error
	ListByShift(ctx context.Context, shiftID string) ([]domain.AuthoredNote, error)
	DeleteByShift(ctx context.Context, shiftID string) error
}
