package main

import (
	"context"
	"depot-route-service/internal/adapters/cache"
	"depot-route-service/internal/adapters/osm"
	"depot-route-service/internal/adapters/sessions"
	"depot-route-service/internal/api"
	"depot-route-service/internal/config"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/db"
	"depot-route-service/internal/platform/metrics"
	"depot-route-service/internal/platform/obs"
	"depot-route-service/internal/ports"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

// main is the application composition root.
// It loads the road graph once, wires the session store behind its port and
// starts the HTTP server. A road graph that cannot be loaded is fatal.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogger(cfg.Environment)
	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	spec, err := osm.LoadMapSpec(cfg.MapSpecPath, osm.MapSpec{
		Regions:     cfg.MapRegions,
		OverpassURL: cfg.OverpassURL,
		Timeout:     cfg.OverpassTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load map spec")
	}

	// The graph cache is optional; without DATABASE_URL every start downloads the map.
	var graphCache ports.GraphCache
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to postgres")
		}
		defer conn.Close()

		if err := cache.InitSchema(ctx, conn); err != nil {
			log.Fatal().Err(err).Msg("cannot init graph cache schema")
		}
		graphCache = cache.NewSQLGraphCache(conn)
	}

	provider := osm.NewOverpassProvider(spec, graphCache)
	log.Info().Strs("regions", spec.Regions).Msg("loading road graph")
	graph, err := provider.Load(ctx, spec.Regions)
	if err != nil {
		var mle *domain.MapLoadError
		if errors.As(err, &mle) {
			log.Fatal().Err(err).Strs("regions", mle.Regions).Msg("road graph unavailable, refusing to start")
		}
		log.Fatal().Err(err).Msg("road graph unavailable, refusing to start")
	}

	store, closeStore := newSessionStore(ctx, cfg)
	defer closeStore()

	depot := domain.Depot{
		Label:    domain.DepotLabel,
		Location: domain.Coordinates{Lon: cfg.DepotLon, Lat: cfg.DepotLat},
	}
	router := api.NewRouter(store, graph, graph, depot, api.RouteLimit{
		PerSecond: cfg.RouteRateLimit,
		Burst:     cfg.RouteRateBurst,
	})

	waitGroup, ctx := errgroup.WithContext(ctx)
	runHTTPServer(ctx, waitGroup, cfg.Port, router)

	if err := waitGroup.Wait(); err != nil {
		log.Fatal().Err(err).Msg("error from wait group")
	}
}

// newSessionStore uses Redis when REDIS_URL is set, process memory otherwise.
func newSessionStore(ctx context.Context, cfg config.Config) (ports.SessionStore, func()) {
	if cfg.RedisURL == "" {
		log.Info().Dur("ttl", cfg.SessionTTL).Msg("using in-memory session store")
		return sessions.NewMemoryStore(cfg.SessionTTL), func() {}
	}

	rs, err := sessions.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to redis")
	}
	log.Info().Dur("ttl", cfg.SessionTTL).Msg("using redis session store")
	return rs, func() { _ = rs.Close() }
}

func runHTTPServer(ctx context.Context, waitGroup *errgroup.Group, port string, handler http.Handler) {
	// Route handlers clear their own write deadline; the rest of the API is quick.
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	waitGroup.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed to serve")
			return err
		}
		return nil
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server forced to shutdown")
			return err
		}

		log.Info().Msg("HTTP server is stopped")
		return nil
	})
}

