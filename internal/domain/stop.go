package domain

import "fmt"

// Priority tier of a stop. Only URGENCY_FIRST routing looks at it.
type Priority int

const (
	PriorityUrgent   Priority = 1
	PriorityStandard Priority = 2
)

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "urgent"
	case PriorityStandard:
		return "standard"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// PriorityFor maps the dispatcher's urgency checkbox to a tier.
func PriorityFor(urgent bool) Priority {
	if urgent {
		return PriorityUrgent
	}
	return PriorityStandard
}

// Represents a single delivery stop entered by the dispatcher.
// Stops are never mutated after creation; identifiers are not unique.
type Stop struct {
	Identifier string
	Latitude   float64
	Longitude  float64
	Priority   Priority
}

func (s Stop) Coordinates() Coordinates {
	return Coordinates{Lon: s.Longitude, Lat: s.Latitude}
}
