package services

import (
	"context"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/metrics"
	"depot-route-service/internal/platform/obs"
	"depot-route-service/internal/ports"
	"errors"
	"fmt"
	"math"
)

// Build a visiting order using a greedy nearest-neighbor algorithm.
//
// The route starts at the depot. Each stop is snapped to its nearest graph
// node, then the pending stop with the shortest road distance from the
// current position is appended until its pool is empty. In urgency-first
// mode urgent stops form a first pool and standard stops a second one that
// continues from wherever the first pass ended.
//
// Distances are not cached between steps, so a pool of k stops costs O(k²)
// shortest-path queries. It does not attempt global route optimization.
// Any graph query failure aborts the whole computation.
func BuildRoute(
	ctx context.Context,
	network ports.RoadNetwork,
	depot domain.Depot,
	stops []domain.Stop,
	mode domain.Mode,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Build")(&err)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RouteComputations.WithLabelValues(string(mode), outcome).Inc()
	}()

	if network == nil {
		return nil, errors.New("build route: road network must be non-nil")
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("build route: %w", domain.ErrNoStops)
	}
	if mode != domain.ModeStandard && mode != domain.ModeUrgencyFirst {
		return nil, fmt.Errorf("build route: unsupported mode %q", mode)
	}

	label := depot.Label
	if label == "" {
		label = domain.DepotLabel
	}

	depotNode, err := network.NearestNode(depot.Location.Lon, depot.Location.Lat)
	if err != nil {
		return nil, &domain.GraphQueryError{Op: "nearest node for depot", Err: err}
	}
	depotLoc, err := network.NodeCoordinates(depotNode)
	if err != nil {
		return nil, &domain.GraphQueryError{Op: "depot node coordinates", Err: err}
	}

	pending := make([]pendingStop, 0, len(stops))
	for _, s := range stops {
		if err := domain.CheckIdentifier(s.Identifier); err != nil {
			return nil, fmt.Errorf("build route: %w", err)
		}
		node, err := network.NearestNode(s.Longitude, s.Latitude)
		if err != nil {
			return nil, &domain.GraphQueryError{Op: fmt.Sprintf("nearest node for stop %q", s.Identifier), Err: err}
		}
		loc, err := network.NodeCoordinates(node)
		if err != nil {
			return nil, &domain.GraphQueryError{Op: fmt.Sprintf("node coordinates for stop %q", s.Identifier), Err: err}
		}
		pending = append(pending, pendingStop{
			node:     node,
			label:    s.Identifier,
			priority: s.Priority,
			location: loc,
		})
	}

	entries := make([]domain.RouteEntry, 0, 1+len(stops))
	entries = append(entries, domain.RouteEntry{
		OrderIndex: 0,
		Node:       depotNode,
		Label:      label,
		Location:   depotLoc,
	})

	current := depotNode
	totalDistanceMeters := 0.0

	for _, pool := range partitionPools(pending, mode) {
		for len(pool) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, &domain.GraphQueryError{Op: "build route", Err: err}
			}

			best := -1
			minDistance := math.Inf(1)

			// Select next stop by minimum road distance (greedy step).
			// Strict comparison keeps the first candidate in pool order on ties.
			for i, candidate := range pool {
				d, err := network.ShortestPathLength(current, candidate.node)
				metrics.ShortestPathQueries.Inc()
				if err != nil {
					return nil, &domain.GraphQueryError{
						Op:  fmt.Sprintf("shortest path %d -> %d (stop %q)", current, candidate.node, candidate.label),
						Err: err,
					}
				}
				if d < minDistance {
					minDistance = d
					best = i
				}
			}

			if best < 0 {
				return nil, errors.New("build route: failed to select next stop")
			}
			next := pool[best]

			totalDistanceMeters += minDistance
			entries = append(entries, domain.RouteEntry{
				OrderIndex: len(entries),
				Node:       next.node,
				Label:      next.label,
				Location:   next.location,
			})

			pool = append(pool[:best], pool[best+1:]...)
			current = next.node
		}
	}

	metrics.RouteStops.Observe(float64(len(stops)))

	return &domain.RouteResult{
		Mode:                mode,
		TotalDistanceMeters: totalDistanceMeters,
		Entries:             entries,
	}, nil
}

// RouteDistance recomputes the total length of a route as the sum of
// shortest-path lengths between consecutive entries.
func RouteDistance(network ports.RoadNetwork, entries []domain.RouteEntry) (float64, error) {
	total := 0.0
	for i := 1; i < len(entries); i++ {
		d, err := network.ShortestPathLength(entries[i-1].Node, entries[i].Node)
		if err != nil {
			return 0, &domain.GraphQueryError{
				Op:  fmt.Sprintf("shortest path %d -> %d", entries[i-1].Node, entries[i].Node),
				Err: err,
			}
		}
		total += d
	}
	return total, nil
}
