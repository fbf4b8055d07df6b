package shift

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for admin-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Domain errors
var (
	ErrEmptyTitle = errors.New("title cannot be empty")
	ErrNotFound   = errors.New("shift not found")
)

// Shift holds state for a shift template: a reusable named checklist.
type Shift struct {
	ID          string
	Title       string
	Description string
	IsTemplate  bool
	CreatedAt   time.Time
}

// Step is one ordered entry of a shift's checklist.
// Steps are replaced wholesale on every edit, so step identity is
// not preserved across edits.
type Step struct {
	ID          string
	ShiftID     string
	Position    int // 1-based
	Description string
}

// Validate checks if the Shift has valid data.
// PRE: Shift struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Shift) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if len(s.Title) > MaxTitleLength {
		return errors.New("title cannot exceed 200 characters")
	}
	if len(s.Description) > MaxDescriptionLength {
		return errors.New("description cannot exceed 2000 characters")
	}
	return nil
}

// ParseStepLines splits a newline-delimited text block into step
// descriptions, trimming each line and skipping blank ones.
// PRE: none
// POST: Returned slice contains only non-empty trimmed lines, in input order
func ParseStepLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// JoinStepLines rebuilds the newline-delimited text block from ordered
// steps, for presenting an existing shift in the edit form.
// INVARIANT: Step fields are not mutated
func JoinStepLines(steps []Step) string {
	descs := make([]string, 0, len(steps))
	for _, s := range steps {
		descs = append(descs, s.Description)
	}
	return strings.Join(descs, "\n")
}
