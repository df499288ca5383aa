package spatial

import (
	"sort"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// SortByDirection returns a copy of the entities ordered by the given
// direction. For NEAREST_FIRST the origin is the reference point; when
// nil, the centroid of the subset is used. Sorts are stable.
func SortByDirection(entities []models.LocationEntity, direction models.SortDirection, origin *models.Position) []models.LocationEntity {
	sorted := make([]models.LocationEntity, len(entities))
	copy(sorted, entities)

	switch direction {
	case models.NorthToSouth:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Position.Lat > sorted[j].Position.Lat
		})
	case models.SouthToNorth:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Position.Lat < sorted[j].Position.Lat
		})
	case models.EastToWest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Position.Lng > sorted[j].Position.Lng
		})
	case models.WestToEast:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Position.Lng < sorted[j].Position.Lng
		})
	case models.NearestFirst:
		ref := origin
		if ref == nil {
			c := Centroid(sorted)
			ref = &c
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			di := HaversineDistance(ref.Lat, ref.Lng, sorted[i].Position.Lat, sorted[i].Position.Lng)
			dj := HaversineDistance(ref.Lat, ref.Lng, sorted[j].Position.Lat, sorted[j].Position.Lng)
			return di < dj
		})
	}

	return sorted
}

// Centroid calculates the geographic centroid of a set of entities
func Centroid(entities []models.LocationEntity) models.Position {
	if len(entities) == 0 {
		return models.Position{}
	}

	var sumLat, sumLng float64
	for _, e := range entities {
		sumLat += e.Position.Lat
		sumLng += e.Position.Lng
	}

	return models.Position{
		Lat: sumLat / float64(len(entities)),
		Lng: sumLng / float64(len(entities)),
	}
}

// TotalDistanceKm sums the leg distances of an ordered sequence of
// entities in kilometers
func TotalDistanceKm(entities []models.LocationEntity) float64 {
	var total float64
	for i := 0; i+1 < len(entities); i++ {
		total += HaversineDistance(
			entities[i].Position.Lat, entities[i].Position.Lng,
			entities[i+1].Position.Lat, entities[i+1].Position.Lng,
		)
	}
	return total / 1000
}

// SamplePath walks a polyline and emits points roughly everyMeters
// apart, always including the first and last vertex. Used to pick probe
// points for nearby-place lookups along a route.
func SamplePath(points []models.PathPoint, everyMeters float64) []models.PathPoint {
	if len(points) < 2 || everyMeters <= 0 {
		return points
	}

	sampled := []models.PathPoint{points[0]}

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		leg := HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		if leg == 0 {
			continue
		}

		// 沿线每 everyMeters 插值取一个探测点
		for walked := everyMeters; walked <= leg; walked += everyMeters {
			lat, lng := Interpolate(walked/leg, a.Latitude, a.Longitude, b.Latitude, b.Longitude)
			sampled = append(sampled, models.PathPoint{Latitude: lat, Longitude: lng})
		}
	}

	last := points[len(points)-1]
	tail := sampled[len(sampled)-1]
	if tail != last {
		sampled = append(sampled, last)
	}

	return sampled
}
