package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/tripmap-backend-go/internal/database"
	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/repository"
)

// PostGetter looks up a post document by note id
type PostGetter interface {
	GetPostByID(ctx context.Context, id string) (*models.RawPlaceNote, error)
}

// FavoriteService manages user post favorites and per-user counters
type FavoriteService struct {
	db        *sql.DB
	favorites *repository.FavoriteRepository
	counts    *repository.NoteCountRepository
	posts     PostGetter
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(db *sql.DB, favorites *repository.FavoriteRepository, counts *repository.NoteCountRepository, posts PostGetter) *FavoriteService {
	return &FavoriteService{db: db, favorites: favorites, counts: counts, posts: posts}
}

// Add favorites a post for the user. The post must exist in the index.
// Favoriting the same post twice is a no-op. The record insert and the
// counter update commit together.
func (s *FavoriteService) Add(ctx context.Context, userID, postID string) (*models.Favorite, error) {
	if s.posts != nil {
		post, err := s.posts.GetPostByID(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up post: %w", err)
		}
		if post == nil {
			return nil, fmt.Errorf("post not found: %s", postID)
		}
	}

	var fav *models.Favorite
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		favorites := s.favorites.WithTx(tx)
		counts := s.counts.WithTx(tx)

		existing, err := favorites.Get(userID, postID)
		if err != nil {
			return err
		}

		fav, err = favorites.Add(userID, postID)
		if err != nil {
			return err
		}

		// 仅首次收藏时计数
		if existing == nil {
			return counts.Increment(userID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fav, nil
}

// Remove deletes a favorite and decrements the user counter when one
// was actually removed, atomically
func (s *FavoriteService) Remove(userID, postID string) (bool, error) {
	var removed bool
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		var err error
		removed, err = s.favorites.WithTx(tx).Remove(userID, postID)
		if err != nil {
			return err
		}
		if removed {
			return s.counts.WithTx(tx).Decrement(userID, 1)
		}
		return nil
	})
	return removed, err
}

// List returns the user's favorites, newest first
func (s *FavoriteService) List(userID string) ([]models.Favorite, error) {
	return s.favorites.List(userID)
}

// Count returns how many favorites the user currently holds
func (s *FavoriteService) Count(userID string) (int, error) {
	return s.counts.Get(userID)
}
