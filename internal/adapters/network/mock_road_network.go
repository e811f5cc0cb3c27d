package network

import (
	"depot-route-service/internal/domain"
	"depot-route-service/internal/roadgraph"
	"fmt"
	"sync/atomic"
)

// MockNode is a graph node with a fixed position.
type MockNode struct {
	ID       domain.NodeRef
	Lat, Lon float64
}

// MockPair is a directed shortest-path length between two nodes.
type MockPair struct {
	From, To domain.NodeRef
	Meters   float64
}

// MockRoadNetwork answers road network queries from fixed tables.
// Pairs not listed fail, except a node to itself which is always 0.
type MockRoadNetwork struct {
	nodes   []MockNode
	m       map[string]float64
	queries atomic.Int64
}

func NewMockRoadNetwork(nodes []MockNode, pairs []MockPair) *MockRoadNetwork {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = p.Meters
	}
	return &MockRoadNetwork{nodes: nodes, m: m}
}

func pairKey(from, to domain.NodeRef) string {
	return fmt.Sprintf("%d|%d", from, to)
}

func (n *MockRoadNetwork) NearestNode(lon, lat float64) (domain.NodeRef, error) {
	if len(n.nodes) == 0 {
		return 0, roadgraph.ErrEmptyGraph
	}
	best := n.nodes[0].ID
	bestDist := roadgraph.HaversineMeters(lat, lon, n.nodes[0].Lat, n.nodes[0].Lon)
	for _, node := range n.nodes[1:] {
		d := roadgraph.HaversineMeters(lat, lon, node.Lat, node.Lon)
		if d < bestDist {
			best, bestDist = node.ID, d
		}
	}
	return best, nil
}

func (n *MockRoadNetwork) ShortestPathLength(from, to domain.NodeRef) (float64, error) {
	n.queries.Add(1)
	if from == to {
		return 0, nil
	}
	d, ok := n.m[pairKey(from, to)]
	if !ok {
		return 0, fmt.Errorf("missing pair %d -> %d: %w", from, to, roadgraph.ErrNoPath)
	}
	return d, nil
}

func (n *MockRoadNetwork) NodeCoordinates(node domain.NodeRef) (domain.Coordinates, error) {
	for _, mn := range n.nodes {
		if mn.ID == node {
			return domain.Coordinates{Lon: mn.Lon, Lat: mn.Lat}, nil
		}
	}
	return domain.Coordinates{}, fmt.Errorf("%w: %d", roadgraph.ErrNodeNotFound, node)
}

// Queries reports how many ShortestPathLength calls were made.
func (n *MockRoadNetwork) Queries() int {
	return int(n.queries.Load())
}
