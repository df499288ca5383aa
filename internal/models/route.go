package models

// SortDirection orders a user-selected subset of entities geographically
type SortDirection string

const (
	NorthToSouth SortDirection = "NORTH_TO_SOUTH"
	SouthToNorth SortDirection = "SOUTH_TO_NORTH"
	EastToWest   SortDirection = "EAST_TO_WEST"
	WestToEast   SortDirection = "WEST_TO_EAST"
	NearestFirst SortDirection = "NEAREST_FIRST"
)

// Valid reports whether d is one of the five supported directions
func (d SortDirection) Valid() bool {
	switch d {
	case NorthToSouth, SouthToNorth, EastToWest, WestToEast, NearestFirst:
		return true
	}
	return false
}

// Route is a planned route over an ordered subset of locations
type Route struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Locations     []LocationEntity `json:"locations"`
	TotalDistance float64          `json:"totalDistance"` // km
	EstimatedTime float64          `json:"estimatedTime"` // hours
}

// RouteRequest asks for a route over previously returned entity ids
type RouteRequest struct {
	LocationIDs []string `json:"locationIds" binding:"required"`
}

// SortRequest asks for a direction sort over a selected subset
type SortRequest struct {
	LocationIDs []string      `json:"locationIds" binding:"required"`
	Direction   SortDirection `json:"direction" binding:"required"`
	Origin      *Position     `json:"origin"` // required for NEAREST_FIRST
}

// SearchResult is the aggregated response served to the map client
type SearchResult struct {
	Locations []LocationEntity `json:"locations"`
	Points    []PathPoint      `json:"points"`
	Mode      string           `json:"mode,omitempty"`
}
