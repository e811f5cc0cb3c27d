package ports

import (
	"context"
	"depot-route-service/internal/roadgraph"
)

// Port: builds a drivable road network for a set of administrative regions.
type MapProvider interface {
	// Load the road graph covering all regions. Failures are *domain.MapLoadError.
	Load(ctx context.Context, regions []string) (*roadgraph.RoadGraph, error)
}

// Optional persistent store for built road graphs, keyed by region set.
type GraphCache interface {
	// Return the cached graph, or (nil, false, nil) on a miss.
	GetGraph(ctx context.Context, key string) (*roadgraph.RoadGraph, bool, error)
	// Replace the cached graph for key.
	PutGraph(ctx context.Context, key string, g *roadgraph.RoadGraph) error
}
