package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"shiftboard/internal/adapters/storage"
	domain "shiftboard/internal/domain/user"
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

var userCreated = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// TestSave_And_Get verifies the round trip by id and by email.
func TestSave_And_Get(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	u := domain.User{ID: "u1", Email: "worker@example.com", Name: "Worker", PasswordHash: "hash", CreatedAt: userCreated}
	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	byID, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Email != "worker@example.com" || byID.Name != "Worker" || byID.IsAdmin {
		t.Errorf("unexpected user: %+v", byID)
	}

	byEmail, err := store.GetByEmail(ctx, "worker@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Errorf("GetByEmail id = %q, want u1", byEmail.ID)
	}
}

// TestGet_NotFound verifies lookups wrap sql.ErrNoRows.
func TestGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID error = %v, want wrapped sql.ErrNoRows", err)
	}
	if _, err := store.GetByEmail(ctx, "missing@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByEmail error = %v, want wrapped sql.ErrNoRows", err)
	}
}

// TestSave_DuplicateEmail verifies the unique constraint: a second user
// with the same email is rejected and no second row is created.
func TestSave_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	first := domain.User{ID: "u1", Email: "dup@example.com", Name: "First", PasswordHash: "h", CreatedAt: userCreated}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := domain.User{ID: "u2", Email: "dup@example.com", Name: "Second", PasswordHash: "h", CreatedAt: userCreated}
	if err := store.Save(ctx, second); err == nil {
		t.Error("expected unique constraint violation for duplicate email")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

// TestSave_UpdatesExisting verifies upsert by id keeps a single row.
func TestSave_UpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	u := domain.User{ID: "u1", Email: "worker@example.com", Name: "Worker", PasswordHash: "h", CreatedAt: userCreated}
	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	u.Name = "Renamed"
	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("Save update failed: %v", err)
	}

	got, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q, want %q", got.Name, "Renamed")
	}
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}
