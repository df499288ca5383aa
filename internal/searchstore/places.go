package searchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olivere/elastic/v7"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// preparePlace fills the geo_point location from the geometry shape
// when only that one is present. Records without a place_id are
// rejected.
func preparePlace(place models.RawPlace) (models.RawPlace, error) {
	if place.PlaceID == "" {
		return place, fmt.Errorf("place is missing place_id")
	}

	if place.Location == nil && place.Geometry != nil {
		place.Location = &models.RawLatLon{
			Lat: place.Geometry.Location.Lat,
			Lon: place.Geometry.Location.Lng,
		}
	}

	return place, nil
}

// AddPlace indexes a single place, skipping it when the id already
// exists. Returns true when the place was written.
func (s *Store) AddPlace(ctx context.Context, place models.RawPlace) (bool, error) {
	doc, err := preparePlace(place)
	if err != nil {
		return false, err
	}

	existing, err := s.GetPlaceByID(ctx, doc.PlaceID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = s.client.Index().
		Index(s.placeIndex).
		Id(doc.PlaceID).
		BodyJson(doc).
		Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to index place %s: %w", doc.PlaceID, err)
	}

	return true, nil
}

// GetPlaceByID fetches one place document, nil when absent
func (s *Store) GetPlaceByID(ctx context.Context, placeID string) (*models.RawPlace, error) {
	res, err := s.client.Get().Index(s.placeIndex).Id(placeID).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place %s: %w", placeID, err)
	}

	var place models.RawPlace
	if err := json.Unmarshal(res.Source, &place); err != nil {
		return nil, fmt.Errorf("failed to decode place %s: %w", placeID, err)
	}

	return &place, nil
}

// SearchPlacesByName searches places by name and address
func (s *Store) SearchPlacesByName(ctx context.Context, name string, size, from int) ([]models.RawPlace, error) {
	query := elastic.NewMultiMatchQuery(name, "name^3", "formatted_address")

	res, err := s.client.Search().
		Index(s.placeIndex).
		Query(query).
		Size(size).
		From(from).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search places by name: %w", err)
	}

	return decodePlaces(res)
}

// SearchPlacesByLocation searches places within the given distance of a
// point, nearest first. distance uses ES syntax, e.g. "1km".
func (s *Store) SearchPlacesByLocation(ctx context.Context, lat, lng float64, distance string, size, from int) ([]models.RawPlace, error) {
	query := elastic.NewGeoDistanceQuery("location").
		Point(lat, lng).
		Distance(distance)

	res, err := s.client.Search().
		Index(s.placeIndex).
		Query(query).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(lat, lng).
			Asc().
			Unit("km")).
		Size(size).
		From(from).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search places by location: %w", err)
	}

	return decodePlaces(res)
}

// ImportPlacesFromFile bulk-indexes a JSON array of place records,
// returning how many were written
func (s *Store) ImportPlacesFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var places []models.RawPlace
	if err := json.Unmarshal(data, &places); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	bulk := s.client.Bulk()
	count := 0
	for _, p := range places {
		doc, err := preparePlace(p)
		if err != nil {
			continue
		}
		bulk.Add(elastic.NewBulkIndexRequest().
			Index(s.placeIndex).
			Id(doc.PlaceID).
			Doc(doc))
		count++
	}

	if count == 0 {
		return 0, nil
	}

	res, err := bulk.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("bulk place import failed: %w", err)
	}
	if res.Errors {
		count -= len(res.Failed())
	}

	return count, nil
}

// ExportPlaces scrolls the whole place index into a JSON file
func (s *Store) ExportPlaces(ctx context.Context, path string) (int, error) {
	var places []models.RawPlace

	scroll := s.client.Scroll(s.placeIndex).Size(500)
	for {
		res, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("place scroll failed: %w", err)
		}

		for _, hit := range res.Hits.Hits {
			var place models.RawPlace
			if err := json.Unmarshal(hit.Source, &place); err != nil {
				continue
			}
			places = append(places, place)
		}
	}

	data, err := json.MarshalIndent(places, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return len(places), nil
}

// DeleteAllPlaces removes every document from the place index
func (s *Store) DeleteAllPlaces(ctx context.Context) (int64, error) {
	res, err := s.client.DeleteByQuery(s.placeIndex).
		Query(elastic.NewMatchAllQuery()).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete places: %w", err)
	}
	return res.Deleted, nil
}

func decodePlaces(res *elastic.SearchResult) ([]models.RawPlace, error) {
	var places []models.RawPlace
	for _, hit := range res.Hits.Hits {
		var place models.RawPlace
		if err := json.Unmarshal(hit.Source, &place); err != nil {
			continue
		}
		if hit.Score != nil {
			place.Relevance = hit.Score
		}
		places = append(places, place)
	}
	return places, nil
}
