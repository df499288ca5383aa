package search

import (
	"context"
	"fmt"

	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/planner"
	"github.com/jengzang/tripmap-backend-go/internal/spatial"
)

// PlaceIndex is the slice of the search store the composed pipeline
// reads places from
type PlaceIndex interface {
	SearchPlacesByName(ctx context.Context, name string, size, from int) ([]models.RawPlace, error)
	SearchPlacesByLocation(ctx context.Context, lat, lng float64, distance string, size, from int) ([]models.RawPlace, error)
}

// PostIndex reads posts from the search store
type PostIndex interface {
	SearchPostsByKeyword(ctx context.Context, keyword string, size, from int, scoreWeight float64) ([]models.RawPost, error)
	SearchPostsByLocation(ctx context.Context, lat, lng float64, distance string, size, from int, scoreWeight float64) ([]models.RawPost, error)
	GetPostByID(ctx context.Context, noteID string) (*models.RawPlaceNote, error)
}

// NoteLinks resolves which posts mention a place
type NoteLinks interface {
	GetNoteIDs(placeID string) ([]string, error)
}

// ComposedSource builds the raw payload locally: resolve anchor places
// for the query, plan a route over them from the southwest corner,
// sample probe points along the path, collect nearby places (with their
// linked posts) around each probe, and keyword-search posts.
type ComposedSource struct {
	places PlaceIndex
	posts  PostIndex
	links  NoteLinks

	anchorLimit    int
	nearbySize     int
	nearbyDistance string
	sampleMeters   float64
	postLimit      int
	scoreWeight    float64
}

// NewComposedSource creates a composed source with the default tuning
func NewComposedSource(places PlaceIndex, posts PostIndex, links NoteLinks) *ComposedSource {
	return &ComposedSource{
		places:         places,
		posts:          posts,
		links:          links,
		anchorLimit:    8,
		nearbySize:     10,
		nearbyDistance: "1km",
		sampleMeters:   2000,
		postLimit:      20,
		scoreWeight:    0.5,
	}
}

// Search assembles a RawSearchResponse for the query
func (c *ComposedSource) Search(ctx context.Context, query, mode string) (*models.RawSearchResponse, error) {
	raw := &models.RawSearchResponse{Mode: mode}

	posts, err := c.posts.SearchPostsByKeyword(ctx, query, c.postLimit, 0, c.scoreWeight)
	if err != nil {
		return nil, fmt.Errorf("post search failed: %w", err)
	}
	raw.Posts = posts

	anchors, err := c.places.SearchPlacesByName(ctx, query, c.anchorLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("anchor search failed: %w", err)
	}
	if len(anchors) == 0 {
		return raw, nil
	}

	// 按西南角贪心排序锚点
	byID := make(map[string]models.RawPlace, len(anchors))
	stops := make([]planner.Stop, 0, len(anchors))
	for _, a := range anchors {
		lat, lng, ok := placeLatLng(a)
		if !ok {
			continue
		}
		byID[a.PlaceID] = a
		stops = append(stops, planner.Stop{
			PlaceID:   a.PlaceID,
			Name:      a.Name,
			Latitude:  lat,
			Longitude: lng,
		})
	}

	ordered := planner.Plan(stops, planner.Southwest)

	vertices := make([]models.PathPoint, 0, len(ordered))
	for _, stop := range ordered {
		raw.Route = append(raw.Route, routeItem(byID[stop.PlaceID], stop))
		vertices = append(vertices, models.PathPoint{Latitude: stop.Latitude, Longitude: stop.Longitude})
	}
	raw.Points = spatial.SamplePath(vertices, c.sampleMeters)

	raw.Places, err = c.nearbyPlaces(ctx, raw.Points)
	if err != nil {
		return nil, err
	}

	raw.Posts, err = c.appendNearbyPosts(ctx, raw.Posts, raw.Points)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// appendNearbyPosts geo-searches posts around each probe point and
// appends the ones the keyword search missed, deduplicated by note_id.
// Picks up posts that mention places along the path without matching
// the query text.
func (c *ComposedSource) appendNearbyPosts(ctx context.Context, posts []models.RawPost, probes []models.PathPoint) ([]models.RawPost, error) {
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		seen[p.NoteID] = true
	}

	for _, probe := range probes {
		found, err := c.posts.SearchPostsByLocation(ctx, probe.Latitude, probe.Longitude,
			c.nearbyDistance, c.nearbySize, 0, c.scoreWeight)
		if err != nil {
			return nil, fmt.Errorf("nearby post search failed: %w", err)
		}

		for _, post := range found {
			if post.NoteID == "" || seen[post.NoteID] {
				continue
			}
			seen[post.NoteID] = true
			posts = append(posts, post)
		}
	}

	return posts, nil
}

// nearbyPlaces probes each sampled point for places within the search
// radius, deduplicating by place_id and attaching linked posts
func (c *ComposedSource) nearbyPlaces(ctx context.Context, probes []models.PathPoint) ([]models.RawPlaceEntry, error) {
	seen := make(map[string]bool)
	var entries []models.RawPlaceEntry

	for _, probe := range probes {
		found, err := c.places.SearchPlacesByLocation(ctx, probe.Latitude, probe.Longitude,
			c.nearbyDistance, c.nearbySize, 0)
		if err != nil {
			return nil, fmt.Errorf("nearby search failed: %w", err)
		}

		for _, place := range found {
			if place.PlaceID == "" || seen[place.PlaceID] {
				continue
			}
			seen[place.PlaceID] = true

			entry := models.RawPlaceEntry{Place: place}

			noteIDs, err := c.links.GetNoteIDs(place.PlaceID)
			if err != nil {
				return nil, fmt.Errorf("note lookup failed for %s: %w", place.PlaceID, err)
			}
			for _, noteID := range noteIDs {
				note, err := c.posts.GetPostByID(ctx, noteID)
				if err != nil {
					return nil, err
				}
				if note != nil {
					entry.Notes = append(entry.Notes, *note)
				}
			}

			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// routeItem converts an anchor place into a routed-stop record
func routeItem(place models.RawPlace, stop planner.Stop) models.RawRouteItem {
	lat, lng := stop.Latitude, stop.Longitude
	return models.RawRouteItem{
		PlaceID:              place.PlaceID,
		Name:                 place.Name,
		Latitude:             &lat,
		Longitude:            &lng,
		FormattedAddress:     place.FormattedAddress,
		FormattedPhoneNumber: place.FormattedPhoneNumber,
		Rating:               place.Rating,
		URL:                  place.URL,
		Website:              place.Website,
		WeekdayText:          place.WeekdayText,
		Photos:               place.Photos,
	}
}

// placeLatLng resolves a place's coordinates from either stored shape
func placeLatLng(p models.RawPlace) (float64, float64, bool) {
	if p.Geometry != nil {
		return p.Geometry.Location.Lat, p.Geometry.Location.Lng, true
	}
	if p.Location != nil {
		return p.Location.Lat, p.Location.Lon, true
	}
	return 0, 0, false
}
