// Package roadgraph holds an immutable, directed road network whose edges are
// weighted by length in metres, and answers the two queries route
// construction needs: nearest node to a coordinate and shortest-path length
// between two nodes.
//
// A RoadGraph is built once through a Builder and never mutated afterwards,
// so a single instance can be shared by concurrent requests without locking.
//
// Storage is compressed sparse row: the outgoing edges of node i are
// head[firstOut[i]:firstOut[i+1]] with matching lengths.
package roadgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"depot-route-service/internal/domain"
)

// Sentinel errors returned by graph queries.
var (
	ErrEmptyGraph   = errors.New("roadgraph: graph has no nodes")
	ErrNodeNotFound = errors.New("roadgraph: node not found")
	ErrNoPath       = errors.New("roadgraph: no path between nodes")
	ErrBadLength    = errors.New("roadgraph: edge length must be finite and non-negative")
)

// Node is a graph vertex with its WGS84 position.
type Node struct {
	ID  domain.NodeRef
	Lat float64
	Lon float64
}

// Edge is a directed road segment.
type Edge struct {
	From         domain.NodeRef
	To           domain.NodeRef
	LengthMeters float64
}

// RoadGraph is a read-only weighted road network.
type RoadGraph struct {
	ids   []domain.NodeRef
	index map[domain.NodeRef]int
	lat   []float64
	lon   []float64

	firstOut []int
	head     []int
	length   []float64
}

// Builder accumulates nodes and edges before freezing them into a RoadGraph.
// Nodes keep their insertion order, which decides nearest-node ties.
type Builder struct {
	nodes []Node
	index map[domain.NodeRef]int
	edges []Edge
}

func NewBuilder() *Builder {
	return &Builder{index: make(map[domain.NodeRef]int)}
}

// AddNode registers a node. Re-adding an id updates its position.
func (b *Builder) AddNode(id domain.NodeRef, lat, lon float64) {
	if i, ok := b.index[id]; ok {
		b.nodes[i].Lat = lat
		b.nodes[i].Lon = lon
		return
	}
	b.index[id] = len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Lat: lat, Lon: lon})
}

// AddEdge registers a directed edge. Both endpoints must be added before Build.
func (b *Builder) AddEdge(from, to domain.NodeRef, lengthMeters float64) {
	b.edges = append(b.edges, Edge{From: from, To: to, LengthMeters: lengthMeters})
}

// AddTwoWay registers an edge in both directions.
func (b *Builder) AddTwoWay(a, c domain.NodeRef, lengthMeters float64) {
	b.AddEdge(a, c, lengthMeters)
	b.AddEdge(c, a, lengthMeters)
}

func (b *Builder) NodeCount() int { return len(b.nodes) }

func (b *Builder) EdgeCount() int { return len(b.edges) }

// Build validates the accumulated data and returns the frozen graph.
func (b *Builder) Build() (*RoadGraph, error) {
	n := len(b.nodes)
	g := &RoadGraph{
		ids:      make([]domain.NodeRef, n),
		index:    make(map[domain.NodeRef]int, n),
		lat:      make([]float64, n),
		lon:      make([]float64, n),
		firstOut: make([]int, n+1),
		head:     make([]int, len(b.edges)),
		length:   make([]float64, len(b.edges)),
	}
	for i, node := range b.nodes {
		g.ids[i] = node.ID
		g.index[node.ID] = i
		g.lat[i] = node.Lat
		g.lon[i] = node.Lon
	}

	type indexed struct {
		from, to int
		length   float64
	}
	edges := make([]indexed, 0, len(b.edges))
	for _, e := range b.edges {
		from, ok := g.index[e.From]
		if !ok {
			return nil, fmt.Errorf("build road graph: edge %d->%d: %w: %d", e.From, e.To, ErrNodeNotFound, e.From)
		}
		to, ok := g.index[e.To]
		if !ok {
			return nil, fmt.Errorf("build road graph: edge %d->%d: %w: %d", e.From, e.To, ErrNodeNotFound, e.To)
		}
		if e.LengthMeters < 0 || math.IsNaN(e.LengthMeters) || math.IsInf(e.LengthMeters, 0) {
			return nil, fmt.Errorf("build road graph: edge %d->%d length=%v: %w", e.From, e.To, e.LengthMeters, ErrBadLength)
		}
		edges = append(edges, indexed{from: from, to: to, length: e.LengthMeters})
	}

	// Stable so parallel edges keep insertion order within a node's row.
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].from < edges[j].from })

	for i, e := range edges {
		g.firstOut[e.from+1]++
		g.head[i] = e.to
		g.length[i] = e.length
	}
	for i := 1; i <= n; i++ {
		g.firstOut[i] += g.firstOut[i-1]
	}

	return g, nil
}

func (g *RoadGraph) NodeCount() int { return len(g.ids) }

func (g *RoadGraph) EdgeCount() int { return len(g.head) }

// HasNode reports whether id is part of the graph.
func (g *RoadGraph) HasNode(id domain.NodeRef) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCoordinates returns the position of a node.
func (g *RoadGraph) NodeCoordinates(id domain.NodeRef) (domain.Coordinates, error) {
	i, ok := g.index[id]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return domain.Coordinates{Lon: g.lon[i], Lat: g.lat[i]}, nil
}

// Nodes returns every node in insertion order.
func (g *RoadGraph) Nodes() []Node {
	out := make([]Node, len(g.ids))
	for i, id := range g.ids {
		out[i] = Node{ID: id, Lat: g.lat[i], Lon: g.lon[i]}
	}
	return out
}

// Edges returns every directed edge grouped by source node.
func (g *RoadGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.head))
	for u := range g.ids {
		for k := g.firstOut[u]; k < g.firstOut[u+1]; k++ {
			out = append(out, Edge{From: g.ids[u], To: g.ids[g.head[k]], LengthMeters: g.length[k]})
		}
	}
	return out
}
