package main

import (
	"context"
	"database/sql"
	"depot-route-service/internal/adapters/cache"
	"depot-route-service/internal/adapters/osm"
	"depot-route-service/internal/config"
	"depot-route-service/internal/platform/db"
	"depot-route-service/internal/platform/obs"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// maptool prepares the Postgres road graph cache ahead of server starts:
// it creates the schema and downloads the configured regions once.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}
	obs.SetupLogger(config.Get("ENVIRONMENT", "production"))

	schemaOnly := flag.Bool("schema-only", false, "only create the cache schema")
	refresh := flag.Bool("refresh", false, "drop the cached graph before downloading")
	flag.Parse()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to postgres")
	}
	defer conn.Close()

	if err := initAndWarm(ctx, conn, *schemaOnly, *refresh); err != nil {
		log.Fatal().Err(err).Msg("maptool failed")
	}
}

func initAndWarm(ctx context.Context, conn *sql.DB, schemaOnly, refresh bool) error {
	log.Info().Msg("Initializing graph cache schema...")
	if err := cache.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Info().Msg("Schema ready.")

	if schemaOnly {
		return nil
	}

	timeout, err := time.ParseDuration(config.Get("OVERPASS_TIMEOUT", "15m"))
	if err != nil {
		return err
	}
	spec, err := osm.LoadMapSpec(config.Get("MAP_SPEC_PATH", ""), osm.MapSpec{
		Regions:     config.SplitRegions(config.Get("MAP_REGIONS", "Puglia, Italy;Basilicata, Italy")),
		OverpassURL: config.Get("OVERPASS_URL", osm.DefaultOverpassURL),
		Timeout:     timeout,
	})
	if err != nil {
		return err
	}

	graphCache := cache.NewSQLGraphCache(conn)
	if refresh {
		if err := graphCache.Delete(ctx, osm.CacheKey(spec.Regions)); err != nil {
			return err
		}
	}

	log.Info().Strs("regions", spec.Regions).Msg("Warming graph cache...")
	g, err := osm.NewOverpassProvider(spec, graphCache).Load(ctx, spec.Regions)
	if err != nil {
		return err
	}
	// Load only logs cache write failures; confirm the graph landed.
	if err := verifyCached(ctx, graphCache, spec.Regions); err != nil {
		return err
	}
	log.Info().
		Int("nodes", g.NodeCount()).
		Int("edges", g.EdgeCount()).
		Msg("Graph cache ready.")

	return nil
}

type graphChecker interface {
	Has(ctx context.Context, key string) (bool, error)
}

func verifyCached(ctx context.Context, c graphChecker, regions []string) error {
	ok, err := c.Has(ctx, osm.CacheKey(regions))
	if err != nil {
		return fmt.Errorf("verify graph cache: %w", err)
	}
	if !ok {
		return fmt.Errorf("graph for %v was not cached", regions)
	}
	return nil
}
