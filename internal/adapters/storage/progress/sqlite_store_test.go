package progress

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"shiftboard/internal/adapters/storage"
	progressDomain "shiftboard/internal/domain/progress"
)

// openTestDB creates a migrated in-memory SQLite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	return db
}

// seedShiftFixture inserts a user, a shift, and two steps.
func seedShiftFixture(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO user (id, email, name, password_hash, created_at) VALUES ('u1', 'worker@example.com', 'Worker', 'x', '2026-01-01T00:00:00Z')`,
		`INSERT INTO shift (id, title, description, created_at) VALUES ('s1', 'Opening', '', '2026-01-01T00:00:00Z')`,
		`INSERT INTO shift_step (id, shift_id, position, description) VALUES ('st1', 's1', 1, 'Unlock door')`,
		`INSERT INTO shift_step (id, shift_id, position, description) VALUES ('st2', 's1', 2, 'Turn on lights')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("fixture insert failed: %v", err)
		}
	}
}

var testStamp = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// freshRows returns one incomplete progress row per fixture step.
func freshRows() []progressDomain.Progress {
	return []progressDomain.Progress{
		{ID: "p1", UserID: "u1", ShiftID: "s1", StepID: "st1", Completed: false, Timestamp: testStamp},
		{ID: "p2", UserID: "u1", ShiftID: "s1", StepID: "st2", Completed: false, Timestamp: testStamp},
	}
}

// TestInsertBatch_And_List verifies bulk insert and retrieval.
func TestInsertBatch_And_List(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if err := store.InsertBatch(ctx, freshRows()); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	rows, err := store.ListByUserAndShift(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("ListByUserAndShift failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, p := range rows {
		if p.Completed {
			t.Errorf("row %s: expected incomplete", p.ID)
		}
		if !p.Timestamp.Equal(testStamp) {
			t.Errorf("row %s: timestamp = %v, want %v", p.ID, p.Timestamp, testStamp)
		}
	}
}

// TestGetByStep_NotFound verifies the error wraps sql.ErrNoRows so
// callers can treat a missing row as a no-op.
func TestGetByStep_NotFound(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)

	_, err := store.GetByStep(context.Background(), "u1", "s1", "st1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected error wrapping sql.ErrNoRows, got %v", err)
	}
}

// TestSave_TogglePersists verifies an update through Save round-trips.
func TestSave_TogglePersists(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if err := store.InsertBatch(ctx, freshRows()); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	p, err := store.GetByStep(ctx, "u1", "s1", "st1")
	if err != nil {
		t.Fatalf("GetByStep failed: %v", err)
	}
	p.Toggle(testStamp.Add(15 * time.Minute))
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByStep(ctx, "u1", "s1", "st1")
	if err != nil {
		t.Fatalf("GetByStep after save failed: %v", err)
	}
	if !got.Completed {
		t.Error("expected Completed=true after toggle save")
	}
	if !got.Timestamp.After(testStamp) {
		t.Errorf("expected restamped timestamp, got %v", got.Timestamp)
	}
}

// TestDeleteByUserAndShift verifies bulk deletion for one pair.
func TestDeleteByUserAndShift(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if err := store.InsertBatch(ctx, freshRows()); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	if err := store.DeleteByUserAndShift(ctx, "u1", "s1"); err != nil {
		t.Fatalf("DeleteByUserAndShift failed: %v", err)
	}

	rows, err := store.ListByUserAndShift(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("ListByUserAndShift failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

// TestCurrentIncompleteShift covers the dashboard aggregate: the most
// recently touched shift with at least one incomplete step wins; fully
// completed shifts are excluded.
func TestCurrentIncompleteShift(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	// No progress at all: no shift in progress.
	_, err := store.CurrentIncompleteShift(ctx, "u1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows with no progress, got %v", err)
	}

	if err := store.InsertBatch(ctx, freshRows()); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	got, err := store.CurrentIncompleteShift(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentIncompleteShift failed: %v", err)
	}
	if got.ID != "s1" || got.Title != "Opening" {
		t.Errorf("got shift %q (%q), want s1 (Opening)", got.ID, got.Title)
	}

	// Complete both steps: shift drops out of the aggregate.
	for _, stepID := range []string{"st1", "st2"} {
		p, err := store.GetByStep(ctx, "u1", "s1", stepID)
		if err != nil {
			t.Fatalf("GetByStep failed: %v", err)
		}
		p.Completed = true
		p.Timestamp = testStamp.Add(time.Hour)
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	_, err = store.CurrentIncompleteShift(ctx, "u1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows after completing all steps, got %v", err)
	}
}

// TestCurrentIncompleteShift_MostRecentWins verifies ordering by latest
// progress timestamp across two in-progress shifts.
func TestCurrentIncompleteShift_MostRecentWins(t *testing.T) {
	db := openTestDB(t)
	seedShiftFixture(t, db)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	stmts := []string{
		`INSERT INTO shift (id, title, description, created_at) VALUES ('s2', 'Closing', '', '2026-01-02T00:00:00Z')`,
		`INSERT INTO shift_step (id, shift_id, position, description) VALUES ('st3', 's2', 1, 'Lock up')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("fixture insert failed: %v", err)
		}
	}

	older := []progressDomain.Progress{
		{ID: "p1", UserID: "u1", ShiftID: "s1", StepID: "st1", Timestamp: testStamp},
		{ID: "p2", UserID: "u1", ShiftID: "s1", StepID: "st2", Timestamp: testStamp},
	}
	newer := []progressDomain.Progress{
		{ID: "p3", UserID: "u1", ShiftID: "s2", StepID: "st3", Timestamp: testStamp.Add(2 * time.Hour)},
	}
	if err := store.InsertBatch(ctx, older); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	if err := store.InsertBatch(ctx, newer); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	got, err := store.CurrentIncompleteShift(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentIncompleteShift failed: %v", err)
	}
	if got.ID != "s2" {
		t.Errorf("got shift %q, want s2 (most recently touched)", got.ID)
	}
}
