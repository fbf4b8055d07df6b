package shift

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shiftboard/internal/adapters/storage"
	domain "shiftboard/internal/domain/shift"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ShiftStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const shiftColumns = "id, title, description, is_template, created_at"

// GetByID retrieves a Shift by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Shift, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+shiftColumns+" FROM shift WHERE id = ?", id)
	entity, err := scanShift(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Shift{}, fmt.Errorf("shift not found: %w", err)
	}
	return entity, err
}

// Save persists a Shift to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Shift) error {
	query := `INSERT INTO shift (id, title, description, is_template, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			is_template=excluded.is_template`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Description,
		boolToInt(entity.IsTemplate),
		entity.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a Shift row.
// Callers are responsible for removing dependent progress, step, and
// note rows first (the delete orchestrator does this in order).
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM shift WHERE id = ?", id)
	return err
}

// List retrieves all shift templates, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Shift, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+shiftColumns+" FROM shift ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Shift
	for rows.Next() {
		entity, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// ListSteps retrieves a shift's steps ordered by position.
// PRE: shiftID is non-empty
// POST: Returns steps sorted ascending by position
func (s *SQLiteStore) ListSteps(ctx context.Context, shiftID string) ([]domain.Step, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, shift_id, position, description FROM shift_step WHERE shift_id = ? ORDER BY position", shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Step
	for rows.Next() {
		var step domain.Step
		if err := rows.Scan(&step.ID, &step.ShiftID, &step.Position, &step.Description); err != nil {
			return nil, err
		}
		results = append(results, step)
	}
	return results, rows.Err()
}

// ReplaceSteps deletes all existing steps for a shift and inserts the
// given steps, in one transaction. Step identity is not preserved.
// PRE: steps carry 1-based sequential positions
// POST: shift_step holds exactly the given steps for shiftID
func (s *SQLiteStore) ReplaceSteps(ctx context.Context, shiftID string, steps []domain.Step) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM shift_step WHERE shift_id = ?", shiftID); err != nil {
		return err
	}
	for _, step := range steps {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO shift_step (id, shift_id, position, description) VALUES (?, ?, ?, ?)",
			step.ID, shiftID, step.Position, step.Description)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteSteps removes all steps for a shift.
// PRE: shiftID is non-empty
// POST: No shift_step rows remain for shiftID
func (s *SQLiteStore) DeleteSteps(ctx context.Context, shiftID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM shift_step WHERE shift_id = ?", shiftID)
	return err
}

// scanShift extracts a Shift from a row scanner function.
func scanShift(scan func(dest ...interface{}) error) (domain.Shift, error) {
	var entity domain.Shift
	var isTemplate int
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&isTemplate,
		&createdAt,
	)
	if err != nil {
		return domain.Shift{}, err
	}
	entity.IsTemplate = isTemplate != 0
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
