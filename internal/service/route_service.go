package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/planner"
	"github.com/jengzang/tripmap-backend-go/internal/spatial"
)

// RouteService plans routes and direction sorts over a user-selected
// subset of the latest search result
type RouteService struct {
	search *SearchService
}

// NewRouteService creates a new route service
func NewRouteService(search *SearchService) *RouteService {
	return &RouteService{search: search}
}

// resolve maps selected ids onto entities from the latest snapshot,
// keeping the request order
func (s *RouteService) resolve(ids []string) ([]models.LocationEntity, error) {
	latest := s.search.Latest()
	if latest == nil {
		return nil, fmt.Errorf("no search result available, run a search first")
	}

	byID := make(map[string]models.LocationEntity, len(latest.Locations))
	for _, e := range latest.Locations {
		byID[e.ID] = e
	}

	entities := make([]models.LocationEntity, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown location id: %s", id)
		}
		entities = append(entities, e)
	}

	return entities, nil
}

// PlanRoute orders the selected locations into a visiting route from
// the southwest corner and estimates distance and travel time
func (s *RouteService) PlanRoute(ids []string) (*models.Route, error) {
	entities, err := s.resolve(ids)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("no locations selected")
	}

	stops := make([]planner.Stop, 0, len(entities))
	byID := make(map[string]models.LocationEntity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
		stops = append(stops, planner.Stop{
			PlaceID:   e.ID,
			Name:      e.Name,
			Latitude:  e.Position.Lat,
			Longitude: e.Position.Lng,
		})
	}

	ordered := planner.Plan(stops, planner.Southwest)

	routeEntities := make([]models.LocationEntity, 0, len(ordered))
	for _, stop := range ordered {
		routeEntities = append(routeEntities, byID[stop.PlaceID])
	}

	distance := spatial.TotalDistanceKm(routeEntities)

	return &models.Route{
		ID:            uuid.NewString(),
		Name:          routeName(routeEntities),
		Locations:     routeEntities,
		TotalDistance: distance,
		EstimatedTime: spatial.EstimateTravelHours(distance),
	}, nil
}

// Sort orders the selected locations by the requested direction
func (s *RouteService) Sort(req models.SortRequest) ([]models.LocationEntity, error) {
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("unknown sort direction: %s", req.Direction)
	}

	entities, err := s.resolve(req.LocationIDs)
	if err != nil {
		return nil, err
	}

	return spatial.SortByDirection(entities, req.Direction, req.Origin), nil
}

func routeName(entities []models.LocationEntity) string {
	if len(entities) == 0 {
		return ""
	}
	if len(entities) == 1 {
		return entities[0].Name
	}
	return fmt.Sprintf("%s → %s", entities[0].Name, entities[len(entities)-1].Name)
}
