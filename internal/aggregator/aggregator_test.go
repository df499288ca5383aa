package aggregator

import (
	"reflect"
	"testing"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestAggregateDedupPriority(t *testing.T) {
	// the same identifier in all three source arrays yields exactly one
	// entity, first writer wins: route > place > post
	raw := &models.RawSearchResponse{
		Route: []models.RawRouteItem{
			{PlaceID: "p1", Name: "Tower", Latitude: fp(31.2), Longitude: fp(121.5)},
		},
		Places: []models.RawPlaceEntry{
			{Place: models.RawPlace{PlaceID: "p1", Name: "Tower (place)"}},
			{Place: models.RawPlace{PlaceID: "p2", Name: "Museum"}},
		},
		Posts: []models.RawPost{
			{NoteID: "n1", Title: "visited", Score: fp(3), Locations: []models.RawPostLocation{
				{PlaceID: "p1"}, {PlaceID: "p2"}, {PlaceID: "p3", Name: "Hidden Cafe"},
			}},
		},
	}

	entities, _ := Aggregate(raw)
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(entities))
	}

	want := map[string]models.Category{
		"p1": models.CategoryRoute,
		"p2": models.CategoryPlace,
		"p3": models.CategoryPost,
	}
	for _, e := range entities {
		if e.Category != want[e.ID] {
			t.Errorf("entity %s: category = %s, want %s", e.ID, e.Category, want[e.ID])
		}
	}

	// the route entity keeps its routed name, but still accumulates the post
	if entities[0].Name != "Tower" {
		t.Errorf("route entity name = %q, want %q", entities[0].Name, "Tower")
	}
	if len(entities[0].PostInfos) != 1 || entities[0].PostInfos[0].NoteID != "n1" {
		t.Errorf("route entity should have accumulated post n1, got %+v", entities[0].PostInfos)
	}
}

func TestAggregateAdditivePosts(t *testing.T) {
	raw := &models.RawSearchResponse{
		Posts: []models.RawPost{
			{NoteID: "n1", Score: fp(2), Locations: []models.RawPostLocation{{PlaceID: "p1", Name: "Cafe"}}},
			{NoteID: "n2", Score: fp(8), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
			{NoteID: "n3", Score: fp(5), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
		},
	}

	entities, _ := Aggregate(raw)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}

	var ids []string
	for _, p := range entities[0].PostInfos {
		ids = append(ids, p.NoteID)
	}
	if !reflect.DeepEqual(ids, []string{"n2", "n3", "n1"}) {
		t.Errorf("posts not in descending score order: %v", ids)
	}
}

func TestAggregatePostSortStability(t *testing.T) {
	// scores [3, 1, 3, 2]: equal scores keep their upstream relative order
	raw := &models.RawSearchResponse{
		Posts: []models.RawPost{
			{NoteID: "a", Score: fp(3), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
			{NoteID: "b", Score: fp(1), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
			{NoteID: "c", Score: fp(3), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
			{NoteID: "d", Score: fp(2), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
		},
	}

	entities, _ := Aggregate(raw)
	var ids []string
	for _, p := range entities[0].PostInfos {
		ids = append(ids, p.NoteID)
	}
	if !reflect.DeepEqual(ids, []string{"a", "c", "d", "b"}) {
		t.Errorf("expected stable order [a c d b], got %v", ids)
	}
}

func TestAggregateDefaults(t *testing.T) {
	raw := &models.RawSearchResponse{
		Route: []models.RawRouteItem{{Name: "Pier", Latitude: fp(37.8), Longitude: fp(-122.4)}},
	}

	entities, _ := Aggregate(raw)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}

	e := entities[0]
	if e.Rating != 0 {
		t.Errorf("rating = %v, want 0", e.Rating)
	}
	if e.Photos == nil || len(e.Photos) != 0 {
		t.Errorf("photos = %v, want empty non-nil slice", e.Photos)
	}
	if e.ID != SynthesizeID("Pier", 37.8, -122.4) {
		t.Errorf("id = %q, want synthesized key", e.ID)
	}
}

func TestInferPlaceType(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		notes   []models.RawPlaceNote
		want    models.PlaceType
	}{
		{"own food keyword", "上海美食", nil, models.PlaceTypeFood},
		{"own attraction keyword", "上海景点", nil, models.PlaceTypeAttraction},
		{"own keyword beats notes", "美食", []models.RawPlaceNote{{SourceKeyword: "景点"}}, models.PlaceTypeFood},
		{"note fallback", "", []models.RawPlaceNote{{SourceKeyword: ""}, {SourceKeyword: "美食打卡"}}, models.PlaceTypeFood},
		{"first matching note wins", "", []models.RawPlaceNote{{SourceKeyword: "景点"}, {SourceKeyword: "美食"}}, models.PlaceTypeAttraction},
		{"english keyword", "street food", nil, models.PlaceTypeFood},
		{"no keyword anywhere", "", []models.RawPlaceNote{{SourceKeyword: "随手拍"}}, models.PlaceTypeAttraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferPlaceType(tt.keyword, tt.notes)
			if got != tt.want {
				t.Errorf("inferPlaceType(%q) = %s, want %s", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestAggregatePathIndependence(t *testing.T) {
	// absent points yields an empty non-nil path regardless of entities
	entities, points := Aggregate(&models.RawSearchResponse{
		Route: []models.RawRouteItem{{PlaceID: "p1", Name: "Stop"}},
	})
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if points == nil || len(points) != 0 {
		t.Errorf("points = %v, want empty non-nil slice", points)
	}

	_, points = Aggregate(&models.RawSearchResponse{
		Points: []models.PathPoint{{Latitude: 1, Longitude: 2}, {Latitude: 3, Longitude: 4}},
	})
	if len(points) != 2 || points[0].Latitude != 1 {
		t.Errorf("path points not copied verbatim: %v", points)
	}
}

func TestAggregateScenario(t *testing.T) {
	// the mixed scenario: one routed item without id, one post creating
	// a post-only entity
	payload := []byte(`{
		"route": [{"name": "Pier 39", "latitude": 37.8, "longitude": -122.4}],
		"places": [],
		"posts": [{
			"note_id": "n1", "title": "Great spot", "_score": 5,
			"locations": [{"place_id": "p1", "name": "Cafe X", "lat": 37.9, "lng": -122.5}]
		}]
	}`)

	entities, points, err := AggregateJSON(payload)
	if err != nil {
		t.Fatalf("AggregateJSON: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no path points, got %v", points)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}

	pier := entities[0]
	if pier.Category != models.CategoryRoute || pier.Rating != 0 {
		t.Errorf("unexpected routed entity: %+v", pier)
	}
	if pier.ID != SynthesizeID("Pier 39", 37.8, -122.4) {
		t.Errorf("routed entity id = %q", pier.ID)
	}

	cafe := entities[1]
	if cafe.ID != "p1" || cafe.Category != models.CategoryPost || cafe.Name != "Cafe X" {
		t.Errorf("unexpected post entity: %+v", cafe)
	}
	if len(cafe.PostInfos) != 1 || cafe.PostInfos[0].NoteID != "n1" || cafe.PostInfos[0].Title != "Great spot" {
		t.Errorf("unexpected post summary: %+v", cafe.PostInfos)
	}
}

func TestAggregateJSONErrors(t *testing.T) {
	// only a non-object top level is an error
	if _, _, err := AggregateJSON([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error for non-object payload")
	}
	if _, _, err := AggregateJSON([]byte(`"nope"`)); err == nil {
		t.Error("expected error for string payload")
	}

	// malformed optional keys degrade silently
	entities, points, err := AggregateJSON([]byte(`{
		"route": "not-an-array",
		"places": [{"place": {"place_id": "p1", "name": "Ok"}}, 42],
		"points": {"bogus": true}
	}`))
	if err != nil {
		t.Fatalf("malformed optional fields should not fail: %v", err)
	}
	if len(entities) != 1 || entities[0].ID != "p1" {
		t.Errorf("expected the one well-formed place to survive, got %+v", entities)
	}
	if len(points) != 0 {
		t.Errorf("expected empty points, got %v", points)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	raw := &models.RawSearchResponse{
		Posts: []models.RawPost{
			{NoteID: "low", Score: fp(1), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
			{NoteID: "high", Score: fp(9), Locations: []models.RawPostLocation{{PlaceID: "p1"}}},
		},
	}

	Aggregate(raw)
	if raw.Posts[0].NoteID != "low" || raw.Posts[1].NoteID != "high" {
		t.Errorf("input posts were reordered: %v, %v", raw.Posts[0].NoteID, raw.Posts[1].NoteID)
	}
}

func TestPlaceCoordinateShapes(t *testing.T) {
	tests := []struct {
		name  string
		place models.RawPlace
		want  models.Position
	}{
		{
			"geometry shape first",
			models.RawPlace{
				PlaceID:  "p1",
				Geometry: &models.RawGeometry{Location: models.RawLatLng{Lat: 31.1, Lng: 121.1}},
				Location: &models.RawLatLon{Lat: 99, Lon: 99},
			},
			models.Position{Lat: 31.1, Lng: 121.1},
		},
		{
			"flat lat/lon second",
			models.RawPlace{PlaceID: "p2", Location: &models.RawLatLon{Lat: 31.2, Lon: 121.2}},
			models.Position{Lat: 31.2, Lng: 121.2},
		},
		{
			"neither defaults to origin",
			models.RawPlace{PlaceID: "p3"},
			models.Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placePosition(tt.place)
			if got != tt.want {
				t.Errorf("placePosition = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHours(t *testing.T) {
	hours := ParseHours([]string{
		"Monday: 9:00 AM – 5:00 PM",
		"星期二: 上午10:00 – 下午8:00",
		"garbage line",
		"Sunday: Closed",
	})

	if hours[models.Monday] != "9:00 AM – 5:00 PM" {
		t.Errorf("monday = %q", hours[models.Monday])
	}
	if hours[models.Tuesday] != "上午10:00 – 下午8:00" {
		t.Errorf("tuesday = %q", hours[models.Tuesday])
	}
	if hours[models.Sunday] != "Closed" {
		t.Errorf("sunday = %q", hours[models.Sunday])
	}
	if _, ok := hours[models.Wednesday]; ok {
		t.Error("absent days must be omitted")
	}
	if len(hours) != 3 {
		t.Errorf("expected 3 parsed days, got %d", len(hours))
	}

	if got := ParseHours(nil); got != nil {
		t.Errorf("ParseHours(nil) = %v, want nil", got)
	}
}
