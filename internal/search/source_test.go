package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpstreamSourceSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/ai-recommend" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("content"); got != "外滩 夜景" {
			t.Errorf("unexpected content param: %s", got)
		}
		if got := r.URL.Query().Get("mode"); got != "walking" {
			t.Errorf("unexpected mode param: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"mode": "walking",
			"route": [{"place_id": "p1", "name": "外滩", "latitude": 31.24, "longitude": 121.49}],
			"posts": "not-an-array"
		}`))
	}))
	defer server.Close()

	source := NewUpstreamSource(server.URL)

	raw, err := source.Search(context.Background(), "外滩 夜景", "walking")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(raw.Route) != 1 || raw.Route[0].PlaceID != "p1" {
		t.Fatalf("route not decoded: %+v", raw.Route)
	}
	if raw.Posts != nil {
		t.Errorf("malformed posts should decode to nil, got %+v", raw.Posts)
	}
	if raw.Mode != "walking" {
		t.Errorf("expected mode walking, got %s", raw.Mode)
	}
}

func TestUpstreamSourceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("content") {
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "junk":
			w.Write([]byte(`[1, 2, 3]`))
		}
	}))
	defer server.Close()

	source := NewUpstreamSource(server.URL)

	if _, err := source.Search(context.Background(), "boom", ""); err == nil {
		t.Error("expected error for non-200 status")
	}
	if _, err := source.Search(context.Background(), "junk", ""); err == nil {
		t.Error("expected error for non-object payload")
	}
}
