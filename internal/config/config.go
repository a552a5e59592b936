// Package config loads campusnav settings from an optional TOML file, an optional .env file
// and CAMPUSNAV_* environment variables (highest priority).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/LdDl/campusnav"
)

// Config aggregates application configuration values.
type Config struct {
	Network NetworkConfig `toml:"network"`
	Routing RoutingConfig `toml:"routing"`
	HTTP    HTTPConfig    `toml:"http"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
	Catalog CatalogConfig `toml:"catalog"`
}

// NetworkConfig describes where road network comes from and how it is connected.
type NetworkConfig struct {
	// Format is one of csv|json|osm|pbf
	Format      string `toml:"format"`
	Nodes       string `toml:"nodes"`
	Edges       string `toml:"edges"`
	Policy      string `toml:"policy"`
	Comma       string `toml:"comma"`
	SkipInvalid bool   `toml:"skip_invalid"`
	// OSMTags overrides accepted highway values for OSM input
	OSMTags []string `toml:"osm_tags"`
}

// RoutingConfig selects locator and solver implementations.
type RoutingConfig struct {
	Locator string `toml:"locator"`
	Solver  string `toml:"solver"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	AllowedOrigins  []string      `toml:"allowed_origins"`
}

// CacheConfig controls route cache. Empty Addr disables it.
type CacheConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	TTL      time.Duration `toml:"ttl"`
}

// Enabled reports whether route cache is configured.
func (cfg CacheConfig) Enabled() bool {
	return cfg.Addr != ""
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text|json
}

// CatalogConfig points to destinations list and default origin.
type CatalogConfig struct {
	Destinations  string    `toml:"destinations"`
	DefaultOrigin []float64 `toml:"default_origin"` // [lat, lon]
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCacheTTL        = 10 * time.Minute
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultOriginLat       = 12.193116
	defaultOriginLon       = 79.084481
)

// Default returns configuration with every default applied.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Format: "csv",
			Policy: campusnav.POLICY_SURVEY_ORDER.String(),
			Comma:  ",",
		},
		Routing: RoutingConfig{
			Locator: campusnav.LOCATOR_LINEAR.String(),
			Solver:  campusnav.SOLVER_DIJKSTRA.String(),
		},
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Cache: CacheConfig{
			TTL: defaultCacheTTL,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
		Catalog: CatalogConfig{
			DefaultOrigin: []float64{defaultOriginLat, defaultOriginLon},
		},
	}
}

// Load reads configuration: defaults, then TOML file (if path is not empty), then .env file
// (if present in working directory), then environment variables. Result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "Can't decode config file '%s'", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("unknown config keys in '%s': %v", path, undecoded)
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, errors.Wrap(err, "Can't load .env")
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	cfg.Network.Format = valueOrDefault("CAMPUSNAV_NETWORK_FORMAT", cfg.Network.Format)
	cfg.Network.Nodes = valueOrDefault("CAMPUSNAV_NETWORK_NODES", cfg.Network.Nodes)
	cfg.Network.Edges = valueOrDefault("CAMPUSNAV_NETWORK_EDGES", cfg.Network.Edges)
	cfg.Network.Policy = valueOrDefault("CAMPUSNAV_NETWORK_POLICY", cfg.Network.Policy)
	cfg.Network.Comma = valueOrDefault("CAMPUSNAV_NETWORK_COMMA", cfg.Network.Comma)
	cfg.Network.SkipInvalid = parseBoolWithDefault("CAMPUSNAV_NETWORK_SKIP_INVALID", cfg.Network.SkipInvalid)

	cfg.Routing.Locator = valueOrDefault("CAMPUSNAV_LOCATOR", cfg.Routing.Locator)
	cfg.Routing.Solver = valueOrDefault("CAMPUSNAV_SOLVER", cfg.Routing.Solver)

	cfg.HTTP.Host = valueOrDefault("CAMPUSNAV_HTTP_HOST", cfg.HTTP.Host)
	port, err := parsePort("CAMPUSNAV_HTTP_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"CAMPUSNAV_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"CAMPUSNAV_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"CAMPUSNAV_HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"CAMPUSNAV_HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"CAMPUSNAV_CACHE_TTL", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.target); err != nil {
			return err
		}
	}
	if v := os.Getenv("CAMPUSNAV_HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = ParseAllowedOrigins(v)
	}

	cfg.Cache.Addr = valueOrDefault("CAMPUSNAV_REDIS_ADDR", cfg.Cache.Addr)
	cfg.Cache.Password = valueOrDefault("CAMPUSNAV_REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Cache.DB = parseIntWithDefault("CAMPUSNAV_REDIS_DB", cfg.Cache.DB)

	cfg.Logging.Level = valueOrDefault("CAMPUSNAV_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("CAMPUSNAV_LOG_FORMAT", cfg.Logging.Format)

	cfg.Catalog.Destinations = valueOrDefault("CAMPUSNAV_CATALOG", cfg.Catalog.Destinations)
	if v := os.Getenv("CAMPUSNAV_DEFAULT_ORIGIN"); v != "" {
		origin, err := ParseLatLon(v)
		if err != nil {
			return errors.Wrap(err, "invalid CAMPUSNAV_DEFAULT_ORIGIN")
		}
		cfg.Catalog.DefaultOrigin = []float64{origin.Lat, origin.Lon}
	}
	return nil
}

// Validate rejects settings engine can't work with.
func (cfg Config) Validate() error {
	policy, err := campusnav.ParseConnectivityPolicy(cfg.Network.Policy)
	if err != nil {
		return err
	}
	if policy != campusnav.POLICY_EXPLICIT_EDGES {
		if cfg.Network.Edges != "" {
			return fmt.Errorf("edges file '%s' is only used with '%s' policy, got '%s'", cfg.Network.Edges, campusnav.POLICY_EXPLICIT_EDGES, policy)
		}
		// OSM ways always become edges. JSON documents are checked by the graph itself
		switch strings.ToLower(cfg.Network.Format) {
		case "osm", "pbf", "xml":
			return fmt.Errorf("'%s' format requires '%s' policy, got '%s'", cfg.Network.Format, campusnav.POLICY_EXPLICIT_EDGES, policy)
		}
	}
	if _, err := campusnav.ParseLocatorKind(cfg.Routing.Locator); err != nil {
		return err
	}
	if _, err := campusnav.ParseSolverKind(cfg.Routing.Solver); err != nil {
		return err
	}
	if cfg.Network.Comma != "" && utf8.RuneCountInString(cfg.Network.Comma) != 1 {
		return fmt.Errorf("comma must be single character, got %q", cfg.Network.Comma)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("port %d is out of range", cfg.HTTP.Port)
	}
	if len(cfg.Catalog.DefaultOrigin) != 2 {
		return fmt.Errorf("default origin must be [lat, lon], got %v", cfg.Catalog.DefaultOrigin)
	}
	if lat, lon := cfg.Catalog.DefaultOrigin[0], cfg.Catalog.DefaultOrigin[1]; lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("default origin (%f, %f) is out of range", lat, lon)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// Source returns engine description of configured network source.
func (cfg NetworkConfig) Source() campusnav.NetworkSource {
	source := campusnav.NetworkSource{
		Format:      cfg.Format,
		NodesFile:   cfg.Nodes,
		EdgesFile:   cfg.Edges,
		SkipInvalid: cfg.SkipInvalid,
		OSM:         campusnav.DefaultOSMConfiguration(),
	}
	if cfg.Comma != "" {
		source.Comma, _ = utf8.DecodeRuneInString(cfg.Comma)
	}
	if len(cfg.OSMTags) > 0 {
		source.OSM.Tags = cfg.OSMTags
	}
	return source
}

// ConnectivityPolicy returns parsed policy. Config must be validated.
func (cfg NetworkConfig) ConnectivityPolicy() campusnav.ConnectivityPolicy {
	policy, _ := campusnav.ParseConnectivityPolicy(cfg.Policy)
	return policy
}

// Options returns network options for configured locator and solver. Config must be validated.
func (cfg RoutingConfig) Options() []func(*campusnav.Network) {
	locator, _ := campusnav.ParseLocatorKind(cfg.Locator)
	solver, _ := campusnav.ParseSolverKind(cfg.Solver)
	return []func(*campusnav.Network){
		campusnav.WithLocator(locator),
		campusnav.WithSolver(solver),
	}
}

// Origin returns default origin as geo point.
func (cfg CatalogConfig) Origin() campusnav.GeoPoint {
	if len(cfg.DefaultOrigin) != 2 {
		return campusnav.GeoPoint{Lat: defaultOriginLat, Lon: defaultOriginLon}
	}
	return campusnav.GeoPoint{Lat: cfg.DefaultOrigin[0], Lon: cfg.DefaultOrigin[1]}
}

// ParseLatLon parses "lat,lon" pair.
func ParseLatLon(s string) (campusnav.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return campusnav.GeoPoint{}, fmt.Errorf("expected 'lat,lon', got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return campusnav.GeoPoint{}, errors.Wrap(err, "Can't parse latitude")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return campusnav.GeoPoint{}, errors.Wrap(err, "Can't parse longitude")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return campusnav.GeoPoint{}, fmt.Errorf("coordinates (%f, %f) are out of range", lat, lon)
	}
	return campusnav.GeoPoint{Lat: lat, Lon: lon}, nil
}

// ParseAllowedOrigins splits comma separated origins list.
func ParseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, target *time.Duration) error {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", key)
		}
		*target = d
	}
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s value %q", key, v)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
