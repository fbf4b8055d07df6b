package note

import (
	"errors"
	"strings"
	"time"
)

// MaxContentLength caps the size of a single note.
const MaxContentLength = 2000

// Domain errors
var (
	ErrEmptyContent = errors.New("note cannot be empty")
)

// Note is a freeform per-shift annotation left by a user while
// working a shift. Notes are never edited; they are deleted only
// when the owning shift is deleted.
type Note struct {
	ID        string
	ShiftID   string
	UserID    string
	Content   string
	Timestamp time.Time
}

// AuthoredNote is a Note joined with its author's display name,
// as presented on the shift detail view.
type AuthoredNote struct {
	Note
	AuthorName string
}

// Validate checks if the Note has valid data.
// PRE: Content has been trimmed by the caller
// POST: Returns nil if valid, error otherwise
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if len(n.Content) > MaxContentLength {
		return errors.New("note cannot exceed 2000 characters")
	}
	return nil
}
