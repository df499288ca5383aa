package service

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/jengzang/tripmap-backend-go/internal/database"
	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/repository"
)

type fakePostGetter struct {
	posts map[string]*models.RawPlaceNote
}

func (g *fakePostGetter) GetPostByID(_ context.Context, id string) (*models.RawPlaceNote, error) {
	return g.posts[id], nil
}

func favoriteServiceForTest(t *testing.T) *FavoriteService {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// 内存库必须单连接
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	posts := &fakePostGetter{posts: map[string]*models.RawPlaceNote{
		"n1": {NoteID: "n1", Title: "外滩夜景"},
		"n2": {NoteID: "n2", Title: "豫园小吃"},
	}}
	return NewFavoriteService(
		db,
		repository.NewFavoriteRepository(db),
		repository.NewNoteCountRepository(db),
		posts,
	)
}

func TestFavoriteAddListRemove(t *testing.T) {
	svc := favoriteServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "n1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", "n2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	favs, err := svc.List("u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(favs) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favs))
	}

	count, err := svc.Count("u1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	removed, err := svc.Remove("u1", "n1")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Error("expected removal of existing favorite")
	}

	count, _ = svc.Count("u1")
	if count != 1 {
		t.Errorf("expected count 1 after removal, got %d", count)
	}

	removed, err = svc.Remove("u1", "n1")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Error("expected no-op removal of absent favorite")
	}
}

func TestFavoriteDuplicateDoesNotDoubleCount(t *testing.T) {
	svc := favoriteServiceForTest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(ctx, "u1", "n1"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	count, err := svc.Count("u1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1 for repeated favorite, got %d", count)
	}
}

func TestFavoriteUnknownPostRejected(t *testing.T) {
	svc := favoriteServiceForTest(t)

	if _, err := svc.Add(context.Background(), "u1", "ghost"); err == nil {
		t.Error("expected error for unknown post")
	}
}
