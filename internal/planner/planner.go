// Package planner orders a set of stops into a visiting route: pick a
// corner of the bounding area as the start, then repeatedly hop to the
// nearest unvisited stop (greedy nearest-neighbor).
package planner

import "math"

// Corner picks which corner of the point set the route starts from
type Corner string

const (
	Southwest Corner = "southwest"
	Northwest Corner = "northwest"
	Southeast Corner = "southeast"
	Northeast Corner = "northeast"
)

// Stop is one candidate stop to visit
type Stop struct {
	PlaceID   string
	Name      string
	Latitude  float64
	Longitude float64
}

// Plan returns the stops reordered into a route starting from the given
// corner. Zero or one stop is returned as-is. The input is not mutated.
func Plan(stops []Stop, start Corner) []Stop {
	if len(stops) <= 1 {
		return stops
	}

	startIdx := cornerIndex(stops, start)

	route := make([]Stop, 0, len(stops))
	route = append(route, stops[startIdx])

	unvisited := make([]Stop, 0, len(stops)-1)
	unvisited = append(unvisited, stops[:startIdx]...)
	unvisited = append(unvisited, stops[startIdx+1:]...)

	current := route[0]
	for len(unvisited) > 0 {
		nearest := 0
		minDist := math.Inf(1)
		for i, s := range unvisited {
			if d := degreeDistance(current, s); d < minDist {
				minDist = d
				nearest = i
			}
		}

		current = unvisited[nearest]
		route = append(route, current)
		unvisited = append(unvisited[:nearest], unvisited[nearest+1:]...)
	}

	return route
}

// degreeDistance is the Euclidean distance in degree space. The planner
// only compares candidates against each other, so the flat-earth
// simplification is fine at city scale.
func degreeDistance(a, b Stop) float64 {
	dLat := a.Latitude - b.Latitude
	dLon := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// cornerIndex finds the stop at the requested corner: extreme longitude
// first, extreme latitude as the tiebreak.
func cornerIndex(stops []Stop, corner Corner) int {
	west := corner == Southwest || corner == Northwest
	south := corner == Southwest || corner == Southeast

	idx := 0
	for i := 1; i < len(stops); i++ {
		lonBetter := stops[i].Longitude < stops[idx].Longitude
		if !west {
			lonBetter = stops[i].Longitude > stops[idx].Longitude
		}

		latBetter := stops[i].Latitude < stops[idx].Latitude
		if !south {
			latBetter = stops[i].Latitude > stops[idx].Latitude
		}

		if lonBetter || (stops[i].Longitude == stops[idx].Longitude && latBetter) {
			idx = i
		}
	}

	return idx
}
