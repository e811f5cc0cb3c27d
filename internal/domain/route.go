package domain

import (
	"fmt"
	"strings"
)

// DepotLabel is the label of the route entry for the depot.
const DepotLabel = "MAGAZZINO"

// Default depot location used when no override is configured.
const (
	DefaultDepotLat = 40.88662985769151
	DefaultDepotLon = 16.852016478389977
)

// NodeRef is an opaque key into the road graph (an OSM node id).
type NodeRef int64

// Depot is the fixed starting location of every route.
type Depot struct {
	Label    string
	Location Coordinates
}

func DefaultDepot() Depot {
	return Depot{
		Label:    DepotLabel,
		Location: Coordinates{Lon: DefaultDepotLon, Lat: DefaultDepotLat},
	}
}

// Mode selects how stops are partitioned before greedy construction.
type Mode string

const (
	// ModeStandard processes all stops in a single pool.
	ModeStandard Mode = "standard"
	// ModeUrgencyFirst exhausts urgent stops before any standard stop.
	ModeUrgencyFirst Mode = "urgency_first"
)

// ParseMode accepts the wire names of the routing modes. Empty means standard.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeUrgencyFirst:
		return ModeUrgencyFirst, nil
	default:
		return "", fmt.Errorf("parse mode: unknown routing mode %q", s)
	}
}

// A single position in a computed route.
// Location is the coordinate of the snapped graph node, not the raw input.
type RouteEntry struct {
	OrderIndex int
	Node       NodeRef
	Label      string
	Location   Coordinates
}

// Represents a computed visiting order starting at the depot.
// A RouteResult is planning output only; it is never persisted.
type RouteResult struct {
	Mode                Mode
	TotalDistanceMeters float64
	Entries             []RouteEntry
}

// Stops returns the entries after the depot.
func (r *RouteResult) Stops() []RouteEntry {
	if len(r.Entries) == 0 {
		return nil
	}
	return r.Entries[1:]
}

// TotalKilometers is the total distance in km as shown to the dispatcher.
func (r *RouteResult) TotalKilometers() float64 {
	return r.TotalDistanceMeters / 1000
}
