package ports

import "depot-route-service/internal/domain"

// Contract for the road network queries used by route construction.
// Implementations must be safe for concurrent read-only use.
type RoadNetwork interface {
	// Return the graph node closest to the given position.
	NearestNode(lon, lat float64) (domain.NodeRef, error)
	// Return the shortest driving distance in metres between two nodes.
	ShortestPathLength(from, to domain.NodeRef) (float64, error)
	// Return the position of a graph node.
	NodeCoordinates(node domain.NodeRef) (domain.Coordinates, error)
}
