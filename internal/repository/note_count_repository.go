package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// NoteCountRepository tracks how many posts each user has collected
type NoteCountRepository struct {
	db DBTX
}

// NewNoteCountRepository creates a new note count repository
func NewNoteCountRepository(db *sql.DB) *NoteCountRepository {
	return &NoteCountRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *NoteCountRepository) WithTx(tx *sql.Tx) *NoteCountRepository {
	return &NoteCountRepository{db: tx}
}

// Increment raises a user's count by delta, creating the row on first use
func (r *NoteCountRepository) Increment(userID string, delta int) error {
	_, err := r.db.Exec(`
		INSERT INTO user_note_counts (user_id, post_count) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET post_count = post_count + excluded.post_count`,
		userID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to increment note count: %w", err)
	}
	return nil
}

// Decrement lowers a user's count by delta, never below zero
func (r *NoteCountRepository) Decrement(userID string, delta int) error {
	_, err := r.db.Exec(
		"UPDATE user_note_counts SET post_count = MAX(0, post_count - ?) WHERE user_id = ?",
		delta, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement note count: %w", err)
	}
	return nil
}

// Get returns a user's count, zero when the user has no row
func (r *NoteCountRepository) Get(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT post_count FROM user_note_counts WHERE user_id = ?", userID,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get note count: %w", err)
	}
	return count, nil
}

// All returns every count record
func (r *NoteCountRepository) All() ([]models.NoteCount, error) {
	rows, err := r.db.Query("SELECT id, user_id, post_count FROM user_note_counts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query note counts: %w", err)
	}
	defer rows.Close()

	var counts []models.NoteCount
	for rows.Next() {
		var c models.NoteCount
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostCount); err != nil {
			return nil, fmt.Errorf("failed to scan note count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
