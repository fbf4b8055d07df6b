package projections

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shiftboard/internal/domain/shift"
)

// DashboardProgressStore defines the progress store interface needed by the dashboard projection.
type DashboardProgressStore interface {
	CurrentIncompleteShift(ctx context.Context, userID string) (shift.Shift, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	UserID string
	Name   string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	ProgressStore DashboardProgressStore
	Now           func() time.Time
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Name string

	// Most recently touched shift that still has incomplete steps.
	HasCurrentShift bool
	CurrentShift    shift.Shift

	// Wall clock in the venue's timezone.
	ClockTime string
	ClockDate string
}

// venueLocation returns the display timezone for the dashboard clock.
// Falls back to UTC when tzdata is unavailable.
func venueLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		return time.UTC
	}
	return loc
}

// QueryGetDashboard assembles the worker dashboard.
// PRE: UserID identifies a logged-in user
// POST: HasCurrentShift is false when every selected shift is fully done
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := deps.Now().In(venueLocation())
	result := DashboardResult{
		Name:      query.Name,
		ClockTime: now.Format("15:04:05"),
		ClockDate: now.Format("Monday, 2. January 2006"),
	}

	current, err := deps.ProgressStore.CurrentIncompleteShift(ctx, query.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return DashboardResult{}, err
	}

	result.HasCurrentShift = true
	result.CurrentShift = current
	return result, nil
}
