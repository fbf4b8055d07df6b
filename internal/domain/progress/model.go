package progress

import "time"

// Progress records one user's completion state for one step of one
// shift instance. Rows are created in bulk when a shift is selected
// and deleted in bulk when it is completed or re-selected, so at most
// one row exists per (user, shift, step) in normal operation.
type Progress struct {
	ID        string
	UserID    string
	ShiftID   string
	StepID    string
	Completed bool
	Timestamp time.Time
}

// Toggle flips the completed flag and restamps the row.
// PRE: p is an existing progress row
// POST: Completed is inverted, Timestamp is set to now
func (p *Progress) Toggle(now time.Time) {
	p.Completed = !p.Completed
	p.Timestamp = now
}
