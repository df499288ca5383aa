package search

import (
	"context"
	"testing"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

func ptr(v float64) *float64 { return &v }

func place(id, name string, lat, lng float64) models.RawPlace {
	return models.RawPlace{
		PlaceID:  id,
		Name:     name,
		Geometry: &models.RawGeometry{Location: models.RawLatLng{Lat: lat, Lng: lng}},
	}
}

type fakePlaceIndex struct {
	anchors []models.RawPlace
	nearby  []models.RawPlace
}

func (f *fakePlaceIndex) SearchPlacesByName(_ context.Context, _ string, _, _ int) ([]models.RawPlace, error) {
	return f.anchors, nil
}

func (f *fakePlaceIndex) SearchPlacesByLocation(_ context.Context, _, _ float64, _ string, _, _ int) ([]models.RawPlace, error) {
	return f.nearby, nil
}

type fakePostIndex struct {
	byKeyword  []models.RawPost
	byLocation []models.RawPost
	byID       map[string]*models.RawPlaceNote
}

func (f *fakePostIndex) SearchPostsByKeyword(_ context.Context, _ string, _, _ int, _ float64) ([]models.RawPost, error) {
	return f.byKeyword, nil
}

func (f *fakePostIndex) SearchPostsByLocation(_ context.Context, _, _ float64, _ string, _, _ int, _ float64) ([]models.RawPost, error) {
	return f.byLocation, nil
}

func (f *fakePostIndex) GetPostByID(_ context.Context, id string) (*models.RawPlaceNote, error) {
	return f.byID[id], nil
}

type fakeNoteLinks struct {
	links map[string][]string
}

func (f *fakeNoteLinks) GetNoteIDs(placeID string) ([]string, error) {
	return f.links[placeID], nil
}

func TestComposedSearchAssemblesPayload(t *testing.T) {
	places := &fakePlaceIndex{
		anchors: []models.RawPlace{
			place("north", "北锚点", 31.40, 121.30),
			place("south", "南锚点", 31.00, 121.00),
		},
		nearby: []models.RawPlace{
			place("cafe", "咖啡馆", 31.01, 121.01),
			place("cafe", "咖啡馆", 31.01, 121.01), // 重复,应去重
			{Name: "无ID地点"},                       // 无 place_id,应跳过
		},
	}
	posts := &fakePostIndex{
		byKeyword: []models.RawPost{{NoteID: "n9", Title: "打卡攻略"}},
		byLocation: []models.RawPost{
			{NoteID: "n9", Title: "打卡攻略"}, // 关键词已命中,应去重
			{NoteID: "n7", Title: "沿线美食"},
			{Title: "无ID帖子"}, // 无 note_id,应跳过
		},
		byID: map[string]*models.RawPlaceNote{
			"n1": {NoteID: "n1", Title: "咖啡馆探店"},
		},
	}
	links := &fakeNoteLinks{links: map[string][]string{
		"cafe": {"n1", "missing"},
	}}

	source := NewComposedSource(places, posts, links)

	raw, err := source.Search(context.Background(), "上海", "walking")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if raw.Mode != "walking" {
		t.Errorf("expected mode walking, got %s", raw.Mode)
	}
	if len(raw.Posts) != 2 {
		t.Fatalf("expected keyword post plus one deduplicated geo post, got %+v", raw.Posts)
	}
	if raw.Posts[0].NoteID != "n9" || raw.Posts[1].NoteID != "n7" {
		t.Errorf("unexpected post order: %s, %s", raw.Posts[0].NoteID, raw.Posts[1].NoteID)
	}

	// 西南角先行
	if len(raw.Route) != 2 {
		t.Fatalf("expected 2 route stops, got %d", len(raw.Route))
	}
	if raw.Route[0].PlaceID != "south" || raw.Route[1].PlaceID != "north" {
		t.Errorf("route not planned from southwest: %s, %s", raw.Route[0].PlaceID, raw.Route[1].PlaceID)
	}

	if len(raw.Points) < 2 {
		t.Fatalf("expected sampled path points, got %d", len(raw.Points))
	}
	first := raw.Points[0]
	if first.Latitude != 31.00 || first.Longitude != 121.00 {
		t.Errorf("path should start at the first stop, got %+v", first)
	}

	if len(raw.Places) != 1 {
		t.Fatalf("expected 1 deduplicated nearby place, got %d", len(raw.Places))
	}
	entry := raw.Places[0]
	if entry.Place.PlaceID != "cafe" {
		t.Errorf("unexpected nearby place: %s", entry.Place.PlaceID)
	}
	if len(entry.Notes) != 1 || entry.Notes[0].NoteID != "n1" {
		t.Errorf("linked notes not attached: %+v", entry.Notes)
	}
}

func TestComposedSearchNoAnchors(t *testing.T) {
	source := NewComposedSource(
		&fakePlaceIndex{},
		&fakePostIndex{byKeyword: []models.RawPost{{NoteID: "n1"}}},
		&fakeNoteLinks{},
	)

	raw, err := source.Search(context.Background(), "无结果", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(raw.Posts) != 1 {
		t.Errorf("posts should still be returned, got %d", len(raw.Posts))
	}
	if raw.Route != nil || raw.Points != nil || raw.Places != nil {
		t.Error("expected empty route, points and places without anchors")
	}
}
