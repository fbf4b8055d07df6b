package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shiftboard/internal/domain/shift"
)

// ShiftStoreForManage defines the shift store interface needed by the admin orchestrators.
type ShiftStoreForManage interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
	Save(ctx context.Context, s shift.Shift) error
	Delete(ctx context.Context, id string) error
	ReplaceSteps(ctx context.Context, shiftID string, steps []shift.Step) error
	DeleteSteps(ctx context.Context, shiftID string) error
}

// ProgressStoreForManage defines the progress store interface needed by the admin orchestrators.
type ProgressStoreForManage interface {
	DeleteByShift(ctx context.Context, shiftID string) error
}

// NoteStoreForManage defines the note store interface needed by the admin orchestrators.
type NoteStoreForManage interface {
	DeleteByShift(ctx context.Context, shiftID string) error
}

// ManageShiftDeps holds dependencies for the admin shift orchestrators.
type ManageShiftDeps struct {
	ShiftStore    ShiftStoreForManage
	ProgressStore ProgressStoreForManage
	NoteStore     NoteStoreForManage
	GenerateID    func() string
	Now           func() time.Time
}

// CreateShiftInput carries input for ExecuteCreateShift.
type CreateShiftInput struct {
	Title       string
	Description string
	StepsText   string // newline-delimited step descriptions
}

// ExecuteCreateShift creates a shift template with its ordered steps.
// PRE: Title is non-empty
// POST: Shift saved with 1-based step positions matching input line order
func ExecuteCreateShift(ctx context.Context, input CreateShiftInput, deps ManageShiftDeps) (string, error) {
	s := shift.Shift{
		ID:          deps.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		IsTemplate:  true,
		CreatedAt:   deps.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return "", err
	}

	if err := deps.ShiftStore.Save(ctx, s); err != nil {
		return "", err
	}

	steps := buildSteps(s.ID, input.StepsText, deps.GenerateID)
	if err := deps.ShiftStore.ReplaceSteps(ctx, s.ID, steps); err != nil {
		return "", err
	}

	slog.Info("shift_event", "event", "shift_created", "shift_id", s.ID, "title", s.Title, "steps", len(steps))
	return s.ID, nil
}

// EditShiftInput carries input for ExecuteEditShift.
type EditShiftInput struct {
	ShiftID     string
	Title       string
	Description string
	StepsText   string
}

// ExecuteEditShift updates a shift template and replaces its steps wholesale.
// PRE: Shift exists; title is non-empty
// POST: New steps carry fresh ids; progress rows for removed steps are left
// behind as orphans rather than deleted
func ExecuteEditShift(ctx context.Context, input EditShiftInput, deps ManageShiftDeps) error {
	s, err := deps.ShiftStore.GetByID(ctx, input.ShiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.ErrNotFound
		}
		return err
	}

	s.Title = strings.TrimSpace(input.Title)
	s.Description = strings.TrimSpace(input.Description)
	if err := s.Validate(); err != nil {
		return err
	}

	if err := deps.ShiftStore.Save(ctx, s); err != nil {
		return err
	}

	steps := buildSteps(s.ID, input.StepsText, deps.GenerateID)
	if err := deps.ShiftStore.ReplaceSteps(ctx, s.ID, steps); err != nil {
		return err
	}

	slog.Info("shift_event", "event", "shift_edited", "shift_id", s.ID, "steps", len(steps))
	return nil
}

// DeleteShiftInput carries input for ExecuteDeleteShift.
type DeleteShiftInput struct {
	ShiftID string
}

// ExecuteDeleteShift removes a shift template and everything hanging off it.
// PRE: none
// POST: Progress, steps, notes and the shift row are gone, in that order
func ExecuteDeleteShift(ctx context.Context, input DeleteShiftInput, deps ManageShiftDeps) error {
	if err := deps.ProgressStore.DeleteByShift(ctx, input.ShiftID); err != nil {
		return err
	}
	if err := deps.ShiftStore.DeleteSteps(ctx, input.ShiftID); err != nil {
		return err
	}
	if err := deps.NoteStore.DeleteByShift(ctx, input.ShiftID); err != nil {
		return err
	}
	if err := deps.ShiftStore.Delete(ctx, input.ShiftID); err != nil {
		return err
	}

	slog.Info("shift_event", "event", "shift_deleted", "shift_id", input.ShiftID)
	return nil
}

func buildSteps(shiftID, stepsText string, generateID func() string) []shift.Step {
	lines := shift.ParseStepLines(stepsText)
	steps := make([]shift.Step, 0, len(lines))
	for i, line := range lines {
		steps = append(steps, shift.Step{
			ID:          generateID(),
			ShiftID:     shiftID,
			Position:    i + 1,
			Description: line,
		})
	}
	return steps
}
