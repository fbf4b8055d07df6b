package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single schema change applied inside a transaction.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered chain of schema changes. Append only;
// never modify an applied migration.
var migrations = []migration{
	{version: 1, name: "baseline", apply: applyBaseline},
}

// LatestSchemaVersion returns the highest migration version.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the current schema version, 0 if the database
// has never been migrated.
// PRE: db is a valid database connection
// POST: Returns version >= 0
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies all pending migrations to the database.
// Safe to run on every startup; already-applied migrations are skipped.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL DEFAULT (datetime('now')))"); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
		slog.Info("migration_applied", "version", m.version, "name", m.name, "db", dbPath)
	}

	return nil
}

// applyBaseline creates the five core tables.
func applyBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS user (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_template INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift_step (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		FOREIGN KEY (shift_id) REFERENCES shift(id)
	);

	-- step_id carries no foreign key: editing a shift replaces its steps
	-- wholesale, which may leave progress rows pointing at removed steps.
	CREATE TABLE IF NOT EXISTS progress (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		step_id TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES user(id),
		FOREIGN KEY (shift_id) REFERENCES shift(id)
	);

	CREATE TABLE IF NOT EXISTS note (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		FOREIGN KEY (shift_id) REFERENCES shift(id),
		FOREIGN KEY (user_id) REFERENCES user(id)
	);
	`
	_, err := tx.Exec(schema)
	return err
}
