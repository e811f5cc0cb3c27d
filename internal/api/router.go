package api

import (
	"depot-route-service/internal/api/handlers"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/metrics"
	"depot-route-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouteLimit throttles route computation per session.
type RouteLimit struct {
	PerSecond float64
	Burst     int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// graph may be nil; it only feeds the health check.
func NewRouter(
	sessions ports.SessionStore,
	network ports.RoadNetwork,
	graph handlers.GraphStats,
	depot domain.Depot,
	limit RouteLimit,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Graph: graph}
	sessionHandler := &handlers.SessionHandler{Sessions: sessions}
	routeHandler := &handlers.RouteHandler{
		Sessions: sessions,
		Network:  network,
		Depot:    depot,
	}
	limiter := newSessionRateLimiter(rate.Limit(limit.PerSecond), limit.Burst)

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /sessions", sessionHandler.Create)
	mux.HandleFunc("GET /sessions/{id}/stops", sessionHandler.ListStops)
	mux.HandleFunc("POST /sessions/{id}/stops", sessionHandler.AddStop)
	mux.HandleFunc("DELETE /sessions/{id}/stops", sessionHandler.ClearStops)

	mux.Handle("POST /sessions/{id}/route", limiter.Wrap(http.HandlerFunc(routeHandler.Compute)))
	mux.Handle("GET /sessions/{id}/route/export", limiter.Wrap(http.HandlerFunc(routeHandler.Export)))

	return requestMiddleware(mux)
}
