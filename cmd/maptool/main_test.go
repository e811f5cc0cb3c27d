package main

import (
	"context"
	"depot-route-service/internal/adapters/osm"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	keys map[string]bool
	err  error
	seen string
}

func (f *fakeChecker) Has(ctx context.Context, key string) (bool, error) {
	f.seen = key
	return f.keys[key], f.err
}

func TestVerifyCached(t *testing.T) {
	regions := []string{"Puglia, Italia"}
	ctx := context.Background()

	c := &fakeChecker{keys: map[string]bool{osm.CacheKey(regions): true}}
	require.NoError(t, verifyCached(ctx, c, regions))
	require.Equal(t, osm.CacheKey(regions), c.seen)

	err := verifyCached(ctx, &fakeChecker{}, regions)
	require.EqualError(t, err, "graph for [Puglia, Italia] was not cached")

	dbErr := errors.New("connection refused")
	err = verifyCached(ctx, &fakeChecker{err: dbErr}, regions)
	require.ErrorIs(t, err, dbErr)
	require.NotContains(t, err.Error(), "<nil>")
}
