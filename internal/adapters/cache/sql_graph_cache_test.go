package cache

import (
	"context"
	"depot-route-service/internal/platform/db"
	"depot-route-service/internal/roadgraph"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLGraphCache {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))
	return NewSQLGraphCache(conn)
}

func sampleGraph(t *testing.T) *roadgraph.RoadGraph {
	t.Helper()
	b := roadgraph.NewBuilder()
	b.AddNode(1, 40.0, 16.0)
	b.AddNode(2, 40.001, 16.0)
	b.AddNode(3, 40.002, 16.001)
	b.AddTwoWay(1, 2, 111.2)
	b.AddEdge(2, 3, 140.5)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestSQLGraphCacheRoundTrip(t *testing.T) {
	c := openTestDB(t)
	ctx := context.Background()
	key := "test;" + t.Name()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	_, ok, err := c.GetGraph(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = c.Has(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	g := sampleGraph(t)
	require.NoError(t, c.PutGraph(ctx, key, g))
	ok, err = c.Has(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	// replacing is allowed
	require.NoError(t, c.PutGraph(ctx, key, g))

	got, ok, err := c.GetGraph(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, g.Nodes(), got.Nodes())
	require.Equal(t, g.Edges(), got.Edges())

	d, err := got.ShortestPathLength(1, 3)
	require.NoError(t, err)
	require.InDelta(t, 251.7, d, 1e-9)
}

func TestSQLGraphCacheValidation(t *testing.T) {
	c := NewSQLGraphCache(nil)
	ctx := context.Background()

	_, _, err := c.GetGraph(ctx, "k")
	require.Error(t, err)
	require.Error(t, c.PutGraph(ctx, "k", nil))
	_, err = c.Has(ctx, "k")
	require.Error(t, err)
	require.Error(t, InitSchema(ctx, nil))
}

func TestSQLGraphCacheDeleteClearsHas(t *testing.T) {
	c := openTestDB(t)
	ctx := context.Background()
	key := "test;" + t.Name()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	require.NoError(t, c.PutGraph(ctx, key, sampleGraph(t)))
	require.NoError(t, c.Delete(ctx, key))

	ok, err := c.Has(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}
