package models

import "time"

// Favorite links a user to a collected post
type Favorite struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	PostID    string    `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlaceNote maps a place to one of the posts that mention it
type PlaceNote struct {
	ID      int64  `json:"id" db:"id"`
	PlaceID string `json:"place_id" db:"place_id"`
	NoteID  string `json:"note_id" db:"note_id"`
}

// NoteCount tracks how many posts a user has collected
type NoteCount struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	PostCount int    `json:"post_count" db:"post_count"`
}
