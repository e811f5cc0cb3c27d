package domain

import (
	"fmt"
	"strings"
)

// Ordered collection of stops entered during one dispatcher session.
// A StopRegistry is owned by exactly one session and is not safe for
// concurrent mutation; session stores serialize access to it.
type StopRegistry struct {
	stops []Stop
}

func NewStopRegistry() *StopRegistry {
	return &StopRegistry{}
}

// Add a stop parsed from dispatcher input. On error the registry is unchanged.
// The identifier is stored as entered; surrounding whitespace only matters
// for the blank and reserved-label checks.
func (r *StopRegistry) Add(identifier string, latLonText string, urgent bool) (Stop, error) {
	if err := CheckIdentifier(identifier); err != nil {
		return Stop{}, fmt.Errorf("add stop: %w", err)
	}

	c, err := ParseCoordinates(latLonText)
	if err != nil {
		return Stop{}, fmt.Errorf("add stop %q: %w", identifier, err)
	}

	stop := Stop{
		Identifier: identifier,
		Latitude:   c.Lat,
		Longitude:  c.Lon,
		Priority:   PriorityFor(urgent),
	}
	r.stops = append(r.stops, stop)
	return stop, nil
}

// Remove all stops.
func (r *StopRegistry) Clear() {
	r.stops = nil
}

// Return stops in insertion order. The slice is a copy.
func (r *StopRegistry) List() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

func (r *StopRegistry) Len() int {
	return len(r.stops)
}

// Restore replaces the registry contents with previously persisted stops.
func (r *StopRegistry) Restore(stops []Stop) {
	r.stops = make([]Stop, len(stops))
	copy(r.stops, stops)
}

// CheckIdentifier rejects blank identifiers and the depot label, which must
// appear exactly once in a route.
func CheckIdentifier(identifier string) error {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return ErrIdentifierRequired
	}
	if strings.EqualFold(trimmed, DepotLabel) {
		return fmt.Errorf("%q: %w", identifier, ErrIdentifierReserved)
	}
	return nil
}
