package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// PlaceNoteRepository handles the place_id <-> note_id mapping table
type PlaceNoteRepository struct {
	db *sql.DB
}

// NewPlaceNoteRepository creates a new place-note repository
func NewPlaceNoteRepository(db *sql.DB) *PlaceNoteRepository {
	return &PlaceNoteRepository{db: db}
}

// Add records that a post mentions a place; duplicates are ignored
func (r *PlaceNoteRepository) Add(placeID, noteID string) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO place_notes (place_id, note_id) VALUES (?, ?)",
		placeID, noteID,
	)
	if err != nil {
		return fmt.Errorf("failed to add place-note mapping: %w", err)
	}
	return nil
}

// GetNoteIDs returns all note ids that mention the place
func (r *PlaceNoteRepository) GetNoteIDs(placeID string) ([]string, error) {
	rows, err := r.db.Query("SELECT note_id FROM place_notes WHERE place_id = ?", placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query note ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan note id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetPlaceIDs returns all place ids a post mentions
func (r *PlaceNoteRepository) GetPlaceIDs(noteID string) ([]string, error) {
	rows, err := r.db.Query("SELECT place_id FROM place_notes WHERE note_id = ?", noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query place ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan place id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// All returns every mapping record
func (r *PlaceNoteRepository) All() ([]models.PlaceNote, error) {
	rows, err := r.db.Query("SELECT id, place_id, note_id FROM place_notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.PlaceNote
	for rows.Next() {
		var m models.PlaceNote
		if err := rows.Scan(&m.ID, &m.PlaceID, &m.NoteID); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

// Clear removes every mapping
func (r *PlaceNoteRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM place_notes"); err != nil {
		return fmt.Errorf("failed to clear place_notes: %w", err)
	}
	return nil
}

// ImportFromFile loads mappings from a JSON file, optionally clearing
// the table first; returns how many records were imported
func (r *PlaceNoteRepository) ImportFromFile(path string, clear bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var mappings []models.PlaceNote
	if err := json.Unmarshal(data, &mappings); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if clear {
		if err := r.Clear(); err != nil {
			return 0, err
		}
	}

	count := 0
	for _, m := range mappings {
		if m.PlaceID == "" || m.NoteID == "" {
			continue
		}
		if err := r.Add(m.PlaceID, m.NoteID); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// ExportToFile writes every mapping to a JSON file
func (r *PlaceNoteRepository) ExportToFile(path string) (int, error) {
	mappings, err := r.All()
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return len(mappings), nil
}
