package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jengzang/tripmap-backend-go/internal/aggregator"
	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/search"
)

// PlaceGetter is the fallback lookup for single locations that are not
// in the latest aggregation snapshot
type PlaceGetter interface {
	GetPlaceByID(ctx context.Context, placeID string) (*models.RawPlace, error)
}

// SearchService runs search queries through the aggregator and keeps
// the latest aggregation snapshot. Every request gets a sequence
// number; a slow response that finishes after a newer one never
// overwrites the snapshot.
type SearchService struct {
	source search.Source
	places PlaceGetter

	seq atomic.Uint64

	mu        sync.RWMutex
	latest    *models.SearchResult
	latestSeq uint64
}

// NewSearchService creates a new search service. places may be nil when
// no place index is available for fallback lookups.
func NewSearchService(source search.Source, places PlaceGetter) *SearchService {
	return &SearchService{source: source, places: places}
}

// Search fetches the raw payload for the query and aggregates it.
// Transport errors propagate; payload-shape problems never fail here.
func (s *SearchService) Search(ctx context.Context, query, mode string) (*models.SearchResult, error) {
	seq := s.seq.Add(1)

	raw, err := s.source.Search(ctx, query, mode)
	if err != nil {
		return nil, err
	}

	entities, points := aggregator.Aggregate(raw)

	resultMode := raw.Mode
	if resultMode == "" {
		resultMode = mode
	}
	result := &models.SearchResult{
		Locations: entities,
		Points:    points,
		Mode:      resultMode,
	}

	s.commit(seq, result)
	return result, nil
}

// commit installs the result as the latest snapshot unless a newer
// request already did
func (s *SearchService) commit(seq uint64, result *models.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.latestSeq {
		return
	}
	s.latestSeq = seq
	s.latest = result
}

// Latest returns the most recent aggregation snapshot, nil before the
// first successful search
func (s *SearchService) Latest() *models.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// GetLocation resolves one entity by id, from the latest snapshot
// first, falling back to the place index
func (s *SearchService) GetLocation(ctx context.Context, id string) (*models.LocationEntity, error) {
	if latest := s.Latest(); latest != nil {
		for i := range latest.Locations {
			if latest.Locations[i].ID == id {
				e := latest.Locations[i]
				return &e, nil
			}
		}
	}

	if s.places == nil {
		return nil, nil
	}

	place, err := s.places.GetPlaceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("place lookup failed: %w", err)
	}
	if place == nil {
		return nil, nil
	}

	entity := aggregator.PlaceEntity(*place, nil)
	return &entity, nil
}
