package osm

import (
	"depot-route-service/internal/domain"
	"depot-route-service/internal/roadgraph"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type direction int

const (
	bothWays direction = iota
	forwardOnly
	backwardOnly
)

// wayDirection reads the traversal direction of a way from its tags.
func wayDirection(tags map[string]string) direction {
	switch strings.ToLower(tags["oneway"]) {
	case "yes", "true", "1":
		return forwardOnly
	case "-1", "reverse":
		return backwardOnly
	}
	switch strings.ToLower(tags["junction"]) {
	case "roundabout", "circular":
		return forwardOnly
	}
	return bothWays
}

func decodeResponse(r io.Reader) (*overpassResponse, error) {
	var resp overpassResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return &resp, nil
}

// buildGraph turns Overpass elements into a road graph. Every consecutive
// node pair of a way becomes an edge weighted by its great-circle length.
// Unless retainAll is set only the largest weakly connected component is kept.
func buildGraph(resp *overpassResponse, retainAll bool) (*roadgraph.RoadGraph, error) {
	type pos struct{ lat, lon float64 }

	positions := make(map[int64]pos)
	for _, el := range resp.Elements {
		if el.Type == "node" {
			positions[el.ID] = pos{el.Lat, el.Lon}
		}
	}

	var edges []roadgraph.Edge
	used := make(map[int64]struct{})
	for _, el := range resp.Elements {
		if el.Type != "way" || len(el.Nodes) < 2 {
			continue
		}
		dir := wayDirection(el.Tags)

		for i := 1; i < len(el.Nodes); i++ {
			u, v := el.Nodes[i-1], el.Nodes[i]
			if u == v {
				continue
			}
			pu, okU := positions[u]
			pv, okV := positions[v]
			if !okU || !okV {
				continue
			}
			length := roadgraph.HaversineMeters(pu.lat, pu.lon, pv.lat, pv.lon)
			from, to := domain.NodeRef(u), domain.NodeRef(v)

			switch dir {
			case forwardOnly:
				edges = append(edges, roadgraph.Edge{From: from, To: to, LengthMeters: length})
			case backwardOnly:
				edges = append(edges, roadgraph.Edge{From: to, To: from, LengthMeters: length})
			default:
				edges = append(edges,
					roadgraph.Edge{From: from, To: to, LengthMeters: length},
					roadgraph.Edge{From: to, To: from, LengthMeters: length},
				)
			}
			used[u] = struct{}{}
			used[v] = struct{}{}
		}
	}

	if len(edges) == 0 {
		return nil, fmt.Errorf("build road graph: no drivable ways in response (%d elements)", len(resp.Elements))
	}

	keep := used
	if !retainAll {
		keep = largestComponent(edges)
	}

	b := roadgraph.NewBuilder()
	for _, el := range resp.Elements {
		if el.Type != "node" {
			continue
		}
		if _, ok := keep[el.ID]; ok {
			b.AddNode(domain.NodeRef(el.ID), el.Lat, el.Lon)
		}
	}
	for _, e := range edges {
		if _, ok := keep[int64(e.From)]; !ok {
			continue
		}
		b.AddEdge(e.From, e.To, e.LengthMeters)
	}

	return b.Build()
}

// largestComponent returns the node ids of the largest weakly connected
// component spanned by edges.
func largestComponent(edges []roadgraph.Edge) map[int64]struct{} {
	parent := make(map[int64]int64)
	var find func(x int64) int64
	find = func(x int64) int64 {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}

	for _, e := range edges {
		a, b := find(int64(e.From)), find(int64(e.To))
		if a != b {
			parent[a] = b
		}
	}

	size := make(map[int64]int)
	var best int64
	bestSize := 0
	for id := range parent {
		root := find(id)
		size[root]++
		if size[root] > bestSize || (size[root] == bestSize && root < best) {
			best, bestSize = root, size[root]
		}
	}

	keep := make(map[int64]struct{}, bestSize)
	for id := range parent {
		if find(id) == best {
			keep[id] = struct{}{}
		}
	}
	return keep
}
