package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/jengzang/tripmap-backend-go/internal/config"
	"github.com/jengzang/tripmap-backend-go/internal/database"
	"github.com/jengzang/tripmap-backend-go/internal/handler"
	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/repository"
	"github.com/jengzang/tripmap-backend-go/internal/service"
)

type stubSource struct{}

func (stubSource) Search(_ context.Context, query, mode string) (*models.RawSearchResponse, error) {
	lat, lng := 31.24, 121.49
	return &models.RawSearchResponse{
		Mode: mode,
		Route: []models.RawRouteItem{
			{PlaceID: "p1", Name: query, Latitude: &lat, Longitude: &lng},
		},
	}, nil
}

func testRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	links := repository.NewPlaceNoteRepository(db)
	favorites := repository.NewFavoriteRepository(db)
	counts := repository.NewNoteCountRepository(db)

	searchService := service.NewSearchService(stubSource{}, nil)
	routeService := service.NewRouteService(searchService)
	favoriteService := service.NewFavoriteService(db, favorites, counts, nil)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AdminUser:       "admin",
		AdminPassword:   "letmein",
		RateLimit:       1000,
		RateLimitWindow: time.Minute,
	}

	handlers := Handlers{
		Search:   handler.NewSearchHandler(searchService),
		Route:    handler.NewRouteHandler(routeService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Admin:    handler.NewAdminHandler(nil, links),
		Auth:     handler.NewAuthHandler(cfg),
	}

	return SetupRouter(cfg, handlers), cfg
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/search", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/search?q=外滩", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.SearchResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Locations) != 1 || resp.Data.Locations[0].Name != "外滩" {
		t.Errorf("unexpected locations: %+v", resp.Data.Locations)
	}

	// 搜索后可以规划路线
	w = doJSON(t, r, http.MethodPost, "/api/v1/routes",
		models.RouteRequest{LocationIDs: []string{"p1"}}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for route over snapshot, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRequiresToken(t *testing.T) {
	r, cfg := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/mappings/export",
		map[string]string{"path": "/tmp/out.json"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login",
		map[string]string{"username": cfg.AdminUser, "password": "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login",
		map[string]string{"username": cfg.AdminUser, "password": cfg.AdminPassword}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("no token issued")
	}

	out := filepath.Join(t.TempDir(), "mappings.json")
	w = doJSON(t, r, http.MethodPost, "/api/admin/mappings/export",
		map[string]string{"path": out},
		map[string]string{"Authorization": "Bearer " + resp.Data.Token})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/u1/favorites/n1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add favorite failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/u1/favorites", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list favorites failed: %d", w.Code)
	}

	var resp struct {
		Data struct {
			Count     int               `json:"count"`
			Favorites []models.Favorite `json:"favorites"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Count != 1 || len(resp.Data.Favorites) != 1 {
		t.Errorf("unexpected favorites payload: %+v", resp.Data)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/u1/favorites/count", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("count favorites failed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/u1/favorites/n1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove favorite failed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/u1/favorites/n1", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for absent favorite, got %d", w.Code)
	}
}
