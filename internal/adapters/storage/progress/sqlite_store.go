package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shiftboard/internal/adapters/storage"
	progressDomain "shiftboard/internal/domain/progress"
	shiftDomain "shiftboard/internal/domain/shift"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProgressStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const progressColumns = "id, user_id, shift_id, step_id, completed, timestamp"

// GetByStep retrieves the progress row for one (user, shift, step).
// PRE: all ids are non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByStep(ctx context.Context, userID, shiftID, stepID string) (progressDomain.Progress, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM progress WHERE user_id = ? AND shift_id = ? AND step_id = ?",
		userID, shiftID, stepID)
	entity, err := scanProgress(row.Scan)
	if err == sql.ErrNoRows {
		return progressDomain.Progress{}, fmt.Errorf("progress not found: %w", err)
	}
	return entity, err
}

// ListByUserAndShift retrieves all progress rows for one (user, shift).
func (s *SQLiteStore) ListByUserAndShift(ctx context.Context, userID, shiftID string) ([]progressDomain.Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+progressColumns+" FROM progress WHERE user_id = ? AND shift_id = ?", userID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []progressDomain.Progress
	for rows.Next() {
		entity, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Progress row (insert or update).
// PRE: entity has a non-empty ID
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity progressDomain.Progress) error {
	query := `INSERT INTO progress (id, user_id, shift_id, step_id, completed, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed=excluded.completed,
			timestamp=excluded.timestamp`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.UserID,
		entity.ShiftID,
		entity.StepID,
		boolToInt(entity.Completed),
		entity.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// InsertBatch inserts all given progress rows in one transaction.
// Used when a user selects a shift: one incomplete row per step.
// PRE: values is non-empty; ids are fresh
// POST: All rows persisted, or none on error
func (s *SQLiteStore) InsertBatch(ctx context.Context, values []progressDomain.Progress) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, entity := range values {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO progress (id, user_id, shift_id, step_id, completed, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
			entity.ID,
			entity.UserID,
			entity.ShiftID,
			entity.StepID,
			boolToInt(entity.Completed),
			entity.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteByUserAndShift removes all progress rows for one (user, shift).
// POST: No progress rows remain for the pair
func (s *SQLiteStore) DeleteByUserAndShift(ctx context.Context, userID, shiftID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM progress WHERE user_id = ? AND shift_id = ?", userID, shiftID)
	return err
}

// DeleteByShift removes all progress rows referencing a shift,
// regardless of user. Used when deleting a shift template.
func (s *SQLiteStore) DeleteByShift(ctx context.Context, shiftID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM progress WHERE shift_id = ?", shiftID)
	return err
}

// CurrentIncompleteShift returns the user's most-recently-touched shift
// that still has incomplete progress rows.
// POST: Returns the shift, or an error wrapping sql.ErrNoRows when the
// user has no shift in progress
func (s *SQLiteStore) CurrentIncompleteShift(ctx context.Context, userID string) (shiftDomain.Shift, error) {
	query := `
		SELECT s.id, s.title, s.description, s.is_template, s.created_at
		FROM shift s
		JOIN progress p ON s.id = p.shift_id
		WHERE p.user_id = ?
		GROUP BY s.id
		HAVING SUM(p.completed) < COUNT(p.id)
		ORDER BY MAX(p.timestamp) DESC
		LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, userID)

	var entity shiftDomain.Shift
	var isTemplate int
	var createdAt string
	err := row.Scan(&entity.ID, &entity.Title, &entity.Description, &isTemplate, &createdAt)
	if err == sql.ErrNoRows {
		return shiftDomain.Shift{}, fmt.Errorf("no shift in progress: %w", err)
	}
	if err != nil {
		return shiftDomain.Shift{}, err
	}
	entity.IsTemplate = isTemplate != 0
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}

// scanProgress extracts a Progress from a row scanner function.
func scanProgress(scan func(dest ...interface{}) error) (progressDomain.Progress, error) {
	var entity progressDomain.Progress
	var completed int
	var timestamp string
	err := scan(
		&entity.ID,
		&entity.UserID,
		&entity.ShiftID,
		&entity.StepID,
		&completed,
		&timestamp,
	)
	if err != nil {
		return progressDomain.Progress{}, err
	}
	entity.Completed = completed != 0
	entity.Timestamp, _ = storage.ParseTime(timestamp)
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
