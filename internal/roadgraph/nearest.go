package roadgraph

import (
	"fmt"
	"math"

	"depot-route-service/internal/domain"
)

// Mean earth radius in metres, the value OSM tooling uses for great-circle lengths.
const EarthRadiusMeters = 6371009.0

// NearestNode returns the node closest to (lon, lat) by great-circle distance.
// Ties resolve to the node added first.
func (g *RoadGraph) NearestNode(lon, lat float64) (domain.NodeRef, error) {
	if len(g.ids) == 0 {
		return 0, ErrEmptyGraph
	}

	best := -1
	bestDist := math.Inf(1)
	for i := range g.ids {
		d := HaversineMeters(lat, lon, g.lat[i], g.lon[i])
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best < 0 {
		return 0, fmt.Errorf("nearest node to (%v, %v): %w", lon, lat, ErrNodeNotFound)
	}
	return g.ids[best], nil
}

// HaversineMeters is the great-circle distance between two WGS84 points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}
