package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx, so a
// repository can run standalone or inside a transaction
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// FavoriteRepository handles user favorite records
type FavoriteRepository struct {
	db DBTX
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *FavoriteRepository) WithTx(tx *sql.Tx) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

// Get returns the favorite record for a user/post pair, nil when absent
func (r *FavoriteRepository) Get(userID, postID string) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.QueryRow(
		"SELECT id, user_id, post_id, created_at FROM user_favorites WHERE user_id = ? AND post_id = ?",
		userID, postID,
	).Scan(&f.ID, &f.UserID, &f.PostID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &f, nil
}

// Add inserts a favorite record; the existing record is returned when
// the pair is already present
func (r *FavoriteRepository) Add(userID, postID string) (*models.Favorite, error) {
	if existing, err := r.Get(userID, postID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO user_favorites (user_id, post_id) VALUES (?, ?)",
		userID, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return r.Get(userID, postID)
}

// Remove deletes a favorite record, reporting whether one was removed
func (r *FavoriteRepository) Remove(userID, postID string) (bool, error) {
	res, err := r.db.Exec(
		"DELETE FROM user_favorites WHERE user_id = ? AND post_id = ?",
		userID, postID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List returns a user's favorites, newest first
func (r *FavoriteRepository) List(userID string) ([]models.Favorite, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, post_id, created_at FROM user_favorites WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.PostID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}
