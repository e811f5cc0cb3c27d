package osm

import (
	"context"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/metrics"
	"depot-route-service/internal/platform/obs"
	"depot-route-service/internal/ports"
	"depot-route-service/internal/roadgraph"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 15 * time.Minute

// OverpassProvider implements MapProvider using the Overpass API.
//
// When a GraphCache is set, graphs are read from it first and written back
// after a fresh download. Cache write failures are logged and ignored.
// The provider is safe for concurrent use.
type OverpassProvider struct {
	session   *http.Client
	baseURL   string
	timeout   time.Duration
	excluded  []string
	retainAll bool
	cache     ports.GraphCache
}

func NewOverpassProvider(spec MapSpec, cache ports.GraphCache) *OverpassProvider {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := spec.OverpassURL
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}

	return &OverpassProvider{
		session:   &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		timeout:   timeout,
		excluded:  spec.ExcludedHighways,
		retainAll: spec.RetainAll,
		cache:     cache,
	}
}

// CacheKey normalizes a region set so the same regions in any order or
// spacing share one cache entry.
func CacheKey(regions []string) string {
	norm := make([]string, 0, len(regions))
	for _, r := range regions {
		r = strings.ToLower(strings.Join(strings.Fields(r), " "))
		if r != "" {
			norm = append(norm, r)
		}
	}
	sort.Strings(norm)
	return strings.Join(norm, ";")
}

// Load the road graph for regions. Every failure is a *domain.MapLoadError.
func (o *OverpassProvider) Load(ctx context.Context, regions []string) (_ *roadgraph.RoadGraph, err error) {
	defer obs.Time(ctx, "osm.Load")(&err)

	if len(regions) == 0 {
		return nil, &domain.MapLoadError{Regions: regions, Err: errors.New("no regions")}
	}

	key := CacheKey(regions)
	start := time.Now()

	if o.cache != nil {
		g, ok, err := o.cache.GetGraph(ctx, key)
		if err != nil {
			return nil, &domain.MapLoadError{Regions: regions, Err: fmt.Errorf("read graph cache: %w", err)}
		}
		if ok {
			metrics.MapLoadSeconds.WithLabelValues("cache").Observe(time.Since(start).Seconds())
			metrics.GraphNodes.Set(float64(g.NodeCount()))
			log.Info().
				Str("key", key).
				Int("nodes", g.NodeCount()).
				Int("edges", g.EdgeCount()).
				Msg("road graph loaded from cache")
			return g, nil
		}
	}

	g, err := o.fetch(ctx, regions)
	if err != nil {
		return nil, &domain.MapLoadError{Regions: regions, Err: err}
	}
	metrics.MapLoadSeconds.WithLabelValues("overpass").Observe(time.Since(start).Seconds())
	metrics.GraphNodes.Set(float64(g.NodeCount()))
	log.Info().
		Strs("regions", regions).
		Int("nodes", g.NodeCount()).
		Int("edges", g.EdgeCount()).
		Msg("road graph downloaded")

	if o.cache != nil {
		if err := o.cache.PutGraph(ctx, key, g); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("graph cache write failed")
		}
	}

	return g, nil
}

func (o *OverpassProvider) fetch(ctx context.Context, regions []string) (*roadgraph.RoadGraph, error) {
	query, err := buildQuery(regions, o.excluded, int(o.timeout.Seconds()))
	if err != nil {
		return nil, err
	}

	req, err := o.newRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	decoded, err := decodeResponse(resp.Body)
	if err != nil {
		return nil, err
	}

	return buildGraph(decoded, o.retainAll)
}
