package services

import (
	"context"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/ports"
	"fmt"
)

type PlanRouteRequest struct {
	SessionID string
	Mode      domain.Mode
	Depot     domain.Depot
}

// PlanRoute computes the route for the stops currently registered in a
// session. An empty registry returns domain.ErrNoStops without invoking
// the route builder.
func PlanRoute(
	ctx context.Context,
	req PlanRouteRequest,
	sessions ports.SessionStore,
	network ports.RoadNetwork,
) (*domain.RouteResult, error) {
	stops, err := sessions.Stops(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("plan route: list stops: %w", err)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("plan route: session %s: %w", req.SessionID, domain.ErrNoStops)
	}

	result, err := BuildRoute(ctx, network, req.Depot, stops, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	return result, nil
}
