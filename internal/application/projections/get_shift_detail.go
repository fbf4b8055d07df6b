package projections

import (
	"context"
	"database/sql"
	"errors"

	"shiftboard/internal/domain/note"
	"shiftboard/internal/domain/progress"
	"shiftboard/internal/domain/shift"
)

// ShiftDetailShiftStore defines the shift store interface needed by the detail projection.
type ShiftDetailShiftStore interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
	ListSteps(ctx context.Context, shiftID string) ([]shift.Step, error)
}

// ShiftDetailProgressStore defines the progress store interface needed by the detail projection.
type ShiftDetailProgressStore interface {
	ListByUserAndShift(ctx context.Context, userID, shiftID string) ([]progress.Progress, error)
}

// ShiftDetailNoteStore defines the note store interface needed by the detail projection.
type ShiftDetailNoteStore interface {
	ListByShift(ctx context.Context, shiftID string) ([]note.AuthoredNote, error)
}

// GetShiftDetailQuery carries input for the shift detail projection.
type GetShiftDetailQuery struct {
	ShiftID string
	UserID  string
}

// GetShiftDetailDeps holds dependencies for the shift detail projection.
type GetShiftDetailDeps struct {
	ShiftStore    ShiftDetailShiftStore
	ProgressStore ShiftDetailProgressStore
	NoteStore     ShiftDetailNoteStore
}

// ShiftDetailResult carries the output of the shift detail projection.
type ShiftDetailResult struct {
	Shift shift.Shift
	Steps []shift.Step

	// Progress keyed by step id. Steps absent from the map have no
	// progress row for this user (shift not selected, or step added
	// after the last selection).
	Progress map[string]progress.Progress

	Started        bool // user has progress rows for this shift
	CompletedSteps int
	TotalSteps     int
	AllDone        bool

	Notes []note.AuthoredNote
}

// QueryGetShiftDetail assembles the checklist view for one shift and user.
// PRE: UserID identifies a logged-in user
// POST: Returns shift.ErrNotFound when the shift does not exist
func QueryGetShiftDetail(ctx context.Context, query GetShiftDetailQuery, deps GetShiftDetailDeps) (ShiftDetailResult, error) {
	s, err := deps.ShiftStore.GetByID(ctx, query.ShiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShiftDetailResult{}, shift.ErrNotFound
		}
		return ShiftDetailResult{}, err
	}

	steps, err := deps.ShiftStore.ListSteps(ctx, query.ShiftID)
	if err != nil {
		return ShiftDetailResult{}, err
	}

	rows, err := deps.ProgressStore.ListByUserAndShift(ctx, query.UserID, query.ShiftID)
	if err != nil {
		return ShiftDetailResult{}, err
	}
	byStep := make(map[string]progress.Progress, len(rows))
	for _, p := range rows {
		byStep[p.StepID] = p
	}

	notes, err := deps.NoteStore.ListByShift(ctx, query.ShiftID)
	if err != nil {
		return ShiftDetailResult{}, err
	}

	completed := 0
	for _, step := range steps {
		if p, ok := byStep[step.ID]; ok && p.Completed {
			completed++
		}
	}

	return ShiftDetailResult{
		Shift:          s,
		Steps:          steps,
		Progress:       byStep,
		Started:        len(rows) > 0,
		CompletedSteps: completed,
		TotalSteps:     len(steps),
		AllDone:        len(steps) > 0 && completed == len(steps),
		Notes:          notes,
	}, nil
}
