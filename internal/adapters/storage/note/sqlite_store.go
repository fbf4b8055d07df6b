package note

import (
	"context"
	"time"

	"shiftboard/internal/adapters/storage"
	domain "shiftboard/internal/domain/note"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new NoteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a Note to the database. Notes are never updated.
// PRE: entity has been validated
// POST: Entity is inserted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO note (id, shift_id, user_id, content, timestamp) VALUES (?, ?, ?, ?, ?)",
		entity.ID,
		entity.ShiftID,
		entity.UserID,
		entity.Content,
		entity.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListByShift retrieves a shift's notes newest first, joined with the
// author's display name.
// PRE: shiftID is non-empty
// POST: Returns notes ordered by timestamp descending
func (s *SQLiteStore) ListByShift(ctx context.Context, shiftID string) ([]domain.AuthoredNote, error) {
	query := `
		SELECT n.id, n.shift_id, n.user_id, n.content, n.timestamp, u.name
		FROM note n
		JOIN user u ON n.user_id = u.id
		WHERE n.shift_id = ?
		ORDER BY n.timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.AuthoredNote
	for rows.Next() {
		var entity domain.AuthoredNote
		var timestamp string
		err := rows.Scan(
			&entity.ID,
			&entity.ShiftID,
			&entity.UserID,
			&entity.Content,
			&timestamp,
			&entity.AuthorName,
		)
		if err != nil {
			return nil, err
		}
		entity.Timestamp, _ = storage.ParseTime(timestamp)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// DeleteByShift removes all notes referencing a shift.
// Used when deleting a shift template.
func (s *SQLiteStore) DeleteByShift(ctx context.Context, shiftID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM note WHERE shift_id = ?", shiftID)
	return err
}
