package projections

import (
	"context"

	"shiftboard/internal/domain/shift"
)

// ShiftListStore defines the shift store interface needed by the shift list projection.
type ShiftListStore interface {
	List(ctx context.Context) ([]shift.Shift, error)
	ListSteps(ctx context.Context, shiftID string) ([]shift.Step, error)
}

// GetShiftListDeps holds dependencies for the shift list projection.
type GetShiftListDeps struct {
	ShiftStore ShiftListStore
}

// ShiftListEntry is one row of the shift picker.
type ShiftListEntry struct {
	Shift     shift.Shift
	StepCount int
}

// QueryGetShiftList lists all shift templates newest-first with step counts.
// PRE: none
// POST: Entries preserve the store's newest-first order
func QueryGetShiftList(ctx context.Context, deps GetShiftListDeps) ([]ShiftListEntry, error) {
	shifts, err := deps.ShiftStore.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ShiftListEntry, 0, len(shifts))
	for _, s := range shifts {
		steps, err := deps.ShiftStore.ListSteps(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ShiftListEntry{Shift: s, StepCount: len(steps)})
	}
	return entries, nil
}
