package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrIdentifierRequired = errors.New("stop identifier is required")
	ErrIdentifierReserved = errors.New("stop identifier is reserved for the depot")
	ErrNoStops            = errors.New("no stops to route")
	ErrSessionNotFound    = errors.New("session not found")
	ErrConcurrentUpdate   = errors.New("session modified concurrently")
)

// ParseError reports malformed coordinate text on stop add.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse coordinates %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidCoordinates }

// MapLoadError reports a failure to fetch or build the road graph.
// It is fatal for routing: no route can be computed without a graph.
type MapLoadError struct {
	Regions []string
	Err     error
}

func (e *MapLoadError) Error() string {
	return fmt.Sprintf("load road graph for %v: %v", e.Regions, e.Err)
}

func (e *MapLoadError) Unwrap() error { return e.Err }

// GraphQueryError reports a nearest-node or shortest-path failure during
// route computation. The whole computation is aborted.
type GraphQueryError struct {
	Op  string
	Err error
}

func (e *GraphQueryError) Error() string {
	return fmt.Sprintf("graph query %s: %v", e.Op, e.Err)
}

func (e *GraphQueryError) Unwrap() error { return e.Err }
