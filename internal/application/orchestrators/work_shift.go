package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shiftboard/internal/domain/note"
	"shiftboard/internal/domain/progress"
	"shiftboard/internal/domain/shift"
)

// ShiftStoreForWork defines the shift store interface needed while working a shift.
type ShiftStoreForWork interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
	ListSteps(ctx context.Context, shiftID string) ([]shift.Step, error)
}

// ProgressStoreForWork defines the progress store interface needed while working a shift.
type ProgressStoreForWork interface {
	GetByStep(ctx context.Context, userID, shiftID, stepID string) (progress.Progress, error)
	Save(ctx context.Context, p progress.Progress) error
	InsertBatch(ctx context.Context, values []progress.Progress) error
	DeleteByUserAndShift(ctx context.Context, userID, shiftID string) error
}

// NoteStoreForWork defines the note store interface needed while working a shift.
type NoteStoreForWork interface {
	Save(ctx context.Context, n note.Note) error
}

// WorkShiftDeps holds dependencies shared by the shift-working orchestrators.
type WorkShiftDeps struct {
	ShiftStore    ShiftStoreForWork
	ProgressStore ProgressStoreForWork
	NoteStore     NoteStoreForWork
	GenerateID    func() string
	Now           func() time.Time
}

// SelectShiftInput carries input for ExecuteSelectShift.
type SelectShiftInput struct {
	UserID  string
	ShiftID string
}

// ExecuteSelectShift starts (or restarts) a shift for a user.
// PRE: Shift exists
// POST: Exactly one incomplete progress row exists per step for (user, shift);
// any earlier progress for the pair is discarded
func ExecuteSelectShift(ctx context.Context, input SelectShiftInput, deps WorkShiftDeps) error {
	if _, err := deps.ShiftStore.GetByID(ctx, input.ShiftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.ErrNotFound
		}
		return err
	}

	steps, err := deps.ShiftStore.ListSteps(ctx, input.ShiftID)
	if err != nil {
		return err
	}

	// Re-selecting wipes the previous attempt before seeding fresh rows.
	if err := deps.ProgressStore.DeleteByUserAndShift(ctx, input.UserID, input.ShiftID); err != nil {
		return err
	}

	now := deps.Now().UTC()
	rows := make([]progress.Progress, 0, len(steps))
	for _, step := range steps {
		rows = append(rows, progress.Progress{
			ID:        deps.GenerateID(),
			UserID:    input.UserID,
			ShiftID:   input.ShiftID,
			StepID:    step.ID,
			Completed: false,
			Timestamp: now,
		})
	}
	if err := deps.ProgressStore.InsertBatch(ctx, rows); err != nil {
		return err
	}

	slog.Info("shift_event", "event", "shift_selected", "user_id", input.UserID, "shift_id", input.ShiftID, "steps", len(rows))
	return nil
}

// ToggleStepInput carries input for ExecuteToggleStep.
type ToggleStepInput struct {
	UserID  string
	ShiftID string
	StepID  string
}

// ExecuteToggleStep flips the completion state of one step.
// PRE: none
// POST: The progress row is inverted and restamped; a missing row is a no-op
func ExecuteToggleStep(ctx context.Context, input ToggleStepInput, deps WorkShiftDeps) error {
	p, err := deps.ProgressStore.GetByStep(ctx, input.UserID, input.ShiftID, input.StepID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Stale form posts (step replaced, shift re-selected) are ignored.
			return nil
		}
		return err
	}

	p.Toggle(deps.Now().UTC())
	if err := deps.ProgressStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("shift_event", "event", "step_toggled", "user_id", input.UserID, "shift_id", input.ShiftID, "step_id", input.StepID, "completed", p.Completed)
	return nil
}

// CompleteShiftInput carries input for ExecuteCompleteShift.
type CompleteShiftInput struct {
	UserID  string
	ShiftID string
}

// ExecuteCompleteShift finishes a shift for a user by discarding its progress.
// PRE: none
// POST: No progress rows remain for (user, shift)
func ExecuteCompleteShift(ctx context.Context, input CompleteShiftInput, deps WorkShiftDeps) error {
	if err := deps.ProgressStore.DeleteByUserAndShift(ctx, input.UserID, input.ShiftID); err != nil {
		return err
	}
	slog.Info("shift_event", "event", "shift_completed", "user_id", input.UserID, "shift_id", input.ShiftID)
	return nil
}

// AddNoteInput carries input for ExecuteAddNote.
type AddNoteInput struct {
	UserID  string
	ShiftID string
	Content string
}

// ExecuteAddNote records a note against a shift.
// PRE: none
// POST: Note saved with trimmed content, or note.ErrEmptyContent when blank
func ExecuteAddNote(ctx context.Context, input AddNoteInput, deps WorkShiftDeps) (string, error) {
	n := note.Note{
		ID:        deps.GenerateID(),
		ShiftID:   input.ShiftID,
		UserID:    input.UserID,
		Content:   strings.TrimSpace(input.Content),
		Timestamp: deps.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return "", err
	}

	if err := deps.NoteStore.Save(ctx, n); err != nil {
		return "", err
	}

	slog.Info("shift_event", "event", "note_added", "user_id", input.UserID, "shift_id", input.ShiftID)
	return n.ID, nil
}
