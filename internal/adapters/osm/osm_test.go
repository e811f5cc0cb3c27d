package osm

import (
	"context"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/roadgraph"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fixture = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": 40.000, "lon": 16.000},
    {"type": "node", "id": 2, "lat": 40.001, "lon": 16.000},
    {"type": "node", "id": 3, "lat": 40.002, "lon": 16.000},
    {"type": "node", "id": 4, "lat": 40.003, "lon": 16.000},
    {"type": "node", "id": 5, "lat": 40.004, "lon": 16.000},
    {"type": "node", "id": 7, "lat": 41.000, "lon": 17.000},
    {"type": "node", "id": 8, "lat": 41.001, "lon": 17.000},
    {"type": "way", "id": 10, "nodes": [1, 2, 3], "tags": {"highway": "residential"}},
    {"type": "way", "id": 11, "nodes": [3, 4], "tags": {"highway": "primary", "oneway": "yes"}},
    {"type": "way", "id": 12, "nodes": [5, 4], "tags": {"highway": "primary", "oneway": "-1"}},
    {"type": "way", "id": 13, "nodes": [7, 8], "tags": {"highway": "tertiary"}},
    {"type": "way", "id": 14, "nodes": [2, 99], "tags": {"highway": "tertiary"}}
  ]
}`

func TestWayDirection(t *testing.T) {
	cases := []struct {
		tags map[string]string
		want direction
	}{
		{nil, bothWays},
		{map[string]string{"oneway": "no"}, bothWays},
		{map[string]string{"oneway": "yes"}, forwardOnly},
		{map[string]string{"oneway": "true"}, forwardOnly},
		{map[string]string{"oneway": "1"}, forwardOnly},
		{map[string]string{"oneway": "-1"}, backwardOnly},
		{map[string]string{"oneway": "reverse"}, backwardOnly},
		{map[string]string{"junction": "roundabout"}, forwardOnly},
		{map[string]string{"junction": "circular"}, forwardOnly},
		{map[string]string{"oneway": "reversible"}, bothWays},
	}
	for _, c := range cases {
		require.Equal(t, c.want, wayDirection(c.tags), "tags %v", c.tags)
	}
}

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery([]string{"Puglia, Italy", "Basilicata, Italy"}, nil, 900)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(q, "[out:json][timeout:900];"))
	require.Contains(t, q, `area["name"="Puglia"]["boundary"="administrative"]->.a0;`)
	require.Contains(t, q, `area["name"="Basilicata"]["boundary"="administrative"]->.a1;`)
	require.Contains(t, q, "way(area.a0)")
	require.Contains(t, q, "way(area.a1)")
	require.Contains(t, q, `["highway"!~"abandoned|bridleway|`)
	require.Contains(t, q, "(._;>;);")
}

func TestBuildQueryCustomExclusions(t *testing.T) {
	q, err := buildQuery([]string{"Matera"}, []string{"track", "path"}, 60)
	require.NoError(t, err)
	require.Contains(t, q, `["highway"!~"track|path"]`)
	require.Contains(t, q, `area["name"="Matera"]`)
}

func TestBuildQueryRejectsEmpty(t *testing.T) {
	_, err := buildQuery(nil, nil, 60)
	require.Error(t, err)

	_, err = buildQuery([]string{" , Italy"}, nil, 60)
	require.Error(t, err)
}

func decodeFixture(t *testing.T) *overpassResponse {
	t.Helper()
	resp, err := decodeResponse(strings.NewReader(fixture))
	require.NoError(t, err)
	return resp
}

func TestBuildGraphKeepsLargestComponent(t *testing.T) {
	g, err := buildGraph(decodeFixture(t), false)
	require.NoError(t, err)

	require.Equal(t, 5, g.NodeCount())
	require.Equal(t, 6, g.EdgeCount())
	require.False(t, g.HasNode(7))
	require.False(t, g.HasNode(99))

	d, err := g.ShortestPathLength(1, 5)
	require.NoError(t, err)
	require.InDelta(t, 4*111.2, d, 2.0)

	_, err = g.ShortestPathLength(5, 1)
	require.ErrorIs(t, err, roadgraph.ErrNoPath)
}

func TestBuildGraphRetainAll(t *testing.T) {
	g, err := buildGraph(decodeFixture(t), true)
	require.NoError(t, err)

	require.Equal(t, 7, g.NodeCount())
	require.Equal(t, 8, g.EdgeCount())
	require.True(t, g.HasNode(7))
}

func TestBuildGraphNoWays(t *testing.T) {
	resp, err := decodeResponse(strings.NewReader(`{"elements":[{"type":"node","id":1,"lat":1,"lon":1}]}`))
	require.NoError(t, err)

	_, err = buildGraph(resp, false)
	require.Error(t, err)
}

type fakeCache struct {
	mu     sync.Mutex
	graphs map[string]*roadgraph.RoadGraph
	putErr error
	puts   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{graphs: make(map[string]*roadgraph.RoadGraph)}
}

func (c *fakeCache) GetGraph(ctx context.Context, key string) (*roadgraph.RoadGraph, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.graphs[key]
	return g, ok, nil
}

func (c *fakeCache) PutGraph(ctx context.Context, key string, g *roadgraph.RoadGraph) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.graphs[key] = g
	return nil
}

func overpassServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		form, err := url.ParseQuery(string(raw))
		require.NoError(t, err)
		require.Contains(t, form.Get("data"), "[out:json]")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestOverpassProviderLoad(t *testing.T) {
	srv, calls := overpassServer(t, http.StatusOK, fixture)
	cache := newFakeCache()
	p := NewOverpassProvider(MapSpec{OverpassURL: srv.URL, Timeout: 5 * time.Second}, cache)

	regions := []string{"Puglia, Italy", "Basilicata, Italy"}
	g, err := p.Load(context.Background(), regions)
	require.NoError(t, err)
	require.Equal(t, 5, g.NodeCount())
	require.EqualValues(t, 1, calls.Load())
	require.Equal(t, 1, cache.puts)

	// second load is served from the cache, regardless of region order
	g2, err := p.Load(context.Background(), []string{"basilicata,  Italy", "Puglia, Italy"})
	require.NoError(t, err)
	require.Same(t, g, g2)
	require.EqualValues(t, 1, calls.Load())
}

func TestOverpassProviderCacheWriteFailureIsNotFatal(t *testing.T) {
	srv, _ := overpassServer(t, http.StatusOK, fixture)
	cache := newFakeCache()
	cache.putErr = errors.New("disk full")
	p := NewOverpassProvider(MapSpec{OverpassURL: srv.URL}, cache)

	g, err := p.Load(context.Background(), []string{"Puglia, Italy"})
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestOverpassProviderHTTPErrorIsNotRetried(t *testing.T) {
	srv, calls := overpassServer(t, http.StatusTooManyRequests, "rate limited")
	p := NewOverpassProvider(MapSpec{OverpassURL: srv.URL}, nil)

	_, err := p.Load(context.Background(), []string{"Puglia, Italy"})
	var mle *domain.MapLoadError
	require.ErrorAs(t, err, &mle)
	require.Equal(t, []string{"Puglia, Italy"}, mle.Regions)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusTooManyRequests, he.Code)
	require.EqualValues(t, 1, calls.Load())
}

func TestOverpassProviderBadJSON(t *testing.T) {
	srv, _ := overpassServer(t, http.StatusOK, "{not json")
	p := NewOverpassProvider(MapSpec{OverpassURL: srv.URL}, nil)

	_, err := p.Load(context.Background(), []string{"Puglia, Italy"})
	var mle *domain.MapLoadError
	require.ErrorAs(t, err, &mle)
}

func TestOverpassProviderNoRegions(t *testing.T) {
	p := NewOverpassProvider(MapSpec{}, nil)
	_, err := p.Load(context.Background(), nil)
	var mle *domain.MapLoadError
	require.ErrorAs(t, err, &mle)
}

func TestCacheKey(t *testing.T) {
	require.Equal(t,
		CacheKey([]string{"Puglia, Italy", "Basilicata, Italy"}),
		CacheKey([]string{" basilicata,   italy ", "PUGLIA, Italy"}),
	)
	require.NotEqual(t, CacheKey([]string{"Puglia, Italy"}), CacheKey([]string{"Basilicata, Italy"}))
}

func TestLoadMapSpec(t *testing.T) {
	base := MapSpec{
		Regions:     []string{"Puglia, Italy", "Basilicata, Italy"},
		OverpassURL: DefaultOverpassURL,
		Timeout:     15 * time.Minute,
	}

	got, err := LoadMapSpec("", base)
	require.NoError(t, err)
	require.Equal(t, base, got)

	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - "Calabria, Italy"
timeout: 2m
excluded_highways: [track, path]
retain_all: true
`), 0o600))

	got, err = LoadMapSpec(path, base)
	require.NoError(t, err)
	require.Equal(t, []string{"Calabria, Italy"}, got.Regions)
	require.Equal(t, 2*time.Minute, got.Timeout)
	require.Equal(t, []string{"track", "path"}, got.ExcludedHighways)
	require.True(t, got.RetainAll)
	require.Equal(t, DefaultOverpassURL, got.OverpassURL)
}

func TestLoadMapSpecErrors(t *testing.T) {
	_, err := LoadMapSpec(filepath.Join(t.TempDir(), "missing.yaml"), MapSpec{})
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions: []\n"), 0o600))
	_, err = LoadMapSpec(path, MapSpec{})
	require.Error(t, err)
}
