package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is one schema change applied in version order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full schema history; never reorder or edit an
// applied entry, append a new version instead
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_place_notes",
		SQL: `
			CREATE TABLE IF NOT EXISTS place_notes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				place_id TEXT NOT NULL,
				note_id TEXT NOT NULL,
				UNIQUE(place_id, note_id)
			);
			CREATE INDEX IF NOT EXISTS idx_place_notes_place ON place_notes(place_id);
			CREATE INDEX IF NOT EXISTS idx_place_notes_note ON place_notes(note_id);
		`,
	},
	{
		Version: 2,
		Name:    "create_user_favorites",
		SQL: `
			CREATE TABLE IF NOT EXISTS user_favorites (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				post_id TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(user_id, post_id)
			);
			CREATE INDEX IF NOT EXISTS idx_user_favorites_user ON user_favorites(user_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_user_note_counts",
		SQL: `
			CREATE TABLE IF NOT EXISTS user_note_counts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL UNIQUE,
				post_count INTEGER NOT NULL DEFAULT 0
			);
		`,
	},
}

// Migrate applies all pending migrations against the given database
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		err := runInTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func runInTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
