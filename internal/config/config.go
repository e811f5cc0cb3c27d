package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the service settings read from the environment (and .env).
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`

	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	RedisURL    string        `mapstructure:"REDIS_URL"`
	SessionTTL  time.Duration `mapstructure:"SESSION_TTL"`

	MapRegions      []string      `mapstructure:"-"`
	MapSpecPath     string        `mapstructure:"MAP_SPEC_PATH"`
	OverpassURL     string        `mapstructure:"OVERPASS_URL"`
	OverpassTimeout time.Duration `mapstructure:"OVERPASS_TIMEOUT"`

	DepotLat float64 `mapstructure:"DEPOT_LAT"`
	DepotLon float64 `mapstructure:"DEPOT_LON"`

	RouteRateLimit float64 `mapstructure:"ROUTE_RATE_LIMIT"`
	RouteRateBurst int     `mapstructure:"ROUTE_RATE_BURST"`
}

var defaults = map[string]any{
	"ENVIRONMENT":      "production",
	"PORT":             "8080",
	"DATABASE_URL":     "",
	"REDIS_URL":        "",
	"SESSION_TTL":      "12h",
	"MAP_REGIONS":      "Puglia, Italy;Basilicata, Italy",
	"MAP_SPEC_PATH":    "",
	"OVERPASS_URL":     "https://overpass-api.de/api/interpreter",
	"OVERPASS_TIMEOUT": "15m",
	"DEPOT_LAT":        40.88662985769151,
	"DEPOT_LON":        16.852016478389977,
	"ROUTE_RATE_LIMIT": 2.0,
	"ROUTE_RATE_BURST": 4,
}

// Load reads .env when present, then the process environment.
// MAP_REGIONS is a ';' separated list because region names contain commas.
func Load() (Config, error) {
	// A missing .env is normal outside local runs.
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.MapRegions = SplitRegions(v.GetString("MAP_REGIONS"))

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.DepotLat < -90 || c.DepotLat > 90 || c.DepotLon < -180 || c.DepotLon > 180 {
		return fmt.Errorf("depot coordinates out of range: %v, %v", c.DepotLat, c.DepotLon)
	}
	if c.RouteRateLimit <= 0 || c.RouteRateBurst <= 0 {
		return fmt.Errorf("ROUTE_RATE_LIMIT and ROUTE_RATE_BURST must be positive")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	return nil
}

// SplitRegions parses a ';' separated region list, dropping blanks.
func SplitRegions(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ";") {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
