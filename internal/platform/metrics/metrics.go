package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// RouteComputations counts route builds by mode and outcome (ok, error).
	RouteComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_computations_total", Help: "Route computations by mode and outcome."},
		[]string{"mode", "outcome"},
	)
	// RouteStops observes how many stops each computed route contained.
	RouteStops = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_stops", Help: "Stops per computed route.", Buckets: []float64{1, 2, 5, 10, 20, 50, 100}},
	)
	// ShortestPathQueries counts shortest-path lookups issued by the route builder.
	ShortestPathQueries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shortest_path_queries_total", Help: "Shortest-path queries issued during route construction."},
	)

	// MapLoadSeconds records how long a road graph load took, by source (cache, overpass).
	MapLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "map_load_duration_seconds", Help: "Road graph load duration in seconds.", Buckets: []float64{0.1, 1, 5, 15, 60, 300, 900}},
		[]string{"source"},
	)
	// GraphNodes reports the size of the loaded road graph.
	GraphNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "road_graph_nodes", Help: "Nodes in the loaded road graph."},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RouteComputations)
		Registry.MustRegister(RouteStops)
		Registry.MustRegister(ShortestPathQueries)
		Registry.MustRegister(MapLoadSeconds)
		Registry.MustRegister(GraphNodes)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
