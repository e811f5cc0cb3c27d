package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAP_REGIONS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, 40.88662985769151, cfg.DepotLat)
	require.Equal(t, 16.852016478389977, cfg.DepotLon)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAP_REGIONS", "Molise, Italy; Campania, Italy ;")
	t.Setenv("DEPOT_LAT", "41.1")
	t.Setenv("DEPOT_LON", "16.9")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, []string{"Molise, Italy", "Campania, Italy"}, cfg.MapRegions)
	require.Equal(t, 41.1, cfg.DepotLat)
	require.Equal(t, 16.9, cfg.DepotLon)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadRejectsBadDepot(t *testing.T) {
	t.Setenv("DEPOT_LAT", "123")

	_, err := Load()
	require.Error(t, err)
}

func TestSplitRegions(t *testing.T) {
	require.Nil(t, SplitRegions(""))
	require.Equal(t, []string{"Puglia, Italy"}, SplitRegions(" Puglia, Italy ;; "))
}

func TestGet(t *testing.T) {
	t.Setenv("SOME_KEY", "")
	require.Equal(t, "fallback", Get("SOME_KEY", "fallback"))

	t.Setenv("SOME_KEY", "value")
	require.Equal(t, "value", Get("SOME_KEY", "fallback"))
}
