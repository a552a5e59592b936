package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LdDl/campusnav"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campusnav.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.Network.ConnectivityPolicy() != campusnav.POLICY_SURVEY_ORDER {
		t.Errorf("expected survey order policy, got %s", cfg.Network.ConnectivityPolicy())
	}
	origin := cfg.Catalog.Origin()
	if origin.Lat != defaultOriginLat || origin.Lon != defaultOriginLon {
		t.Errorf("unexpected default origin %v", origin)
	}
	if cfg.Cache.Enabled() {
		t.Errorf("cache must be disabled without address")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[network]
format = "json"
nodes = "network.json"
policy = "explicit"

[routing]
locator = "quadtree"
solver = "contraction"

[http]
port = 9090
read_timeout = "3s"
allowed_origins = ["http://localhost:5173"]

[cache]
addr = "localhost:6379"
ttl = "1m"

[catalog]
default_origin = [12.2, 79.1]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.HTTP.WriteTimeout != defaultWriteTimeout {
		t.Errorf("missing keys must keep defaults, got write timeout %v", cfg.HTTP.WriteTimeout)
	}
	if !cfg.Cache.Enabled() || cfg.Cache.TTL != time.Minute {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	source := cfg.Network.Source()
	if source.Format != "json" || source.NodesFile != "network.json" || source.Comma != ',' {
		t.Errorf("unexpected source %+v", source)
	}
	if len(cfg.Routing.Options()) != 2 {
		t.Errorf("expected locator and solver options")
	}
	if origin := cfg.Catalog.Origin(); origin.Lat != 12.2 || origin.Lon != 79.1 {
		t.Errorf("unexpected origin %v", origin)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[http]\nport = 9090\n")
	t.Setenv("CAMPUSNAV_HTTP_PORT", "7070")
	t.Setenv("CAMPUSNAV_NETWORK_COMMA", ";")
	t.Setenv("CAMPUSNAV_DEFAULT_ORIGIN", "12.5, 79.5")
	t.Setenv("CAMPUSNAV_HTTP_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("env must override file: expected 7070, got %d", cfg.HTTP.Port)
	}
	if cfg.Network.Source().Comma != ';' {
		t.Errorf("expected ';' comma, got %q", cfg.Network.Source().Comma)
	}
	if origin := cfg.Catalog.Origin(); origin.Lat != 12.5 || origin.Lon != 79.5 {
		t.Errorf("unexpected origin %v", origin)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "unknown key", content: "[network]\nnodez = \"x\"\n"},
		{name: "bad policy", content: "[network]\npolicy = \"magic\"\n"},
		{name: "bad solver", content: "[routing]\nsolver = \"astar\"\n"},
		{name: "bad comma", content: "[network]\ncomma = \";;\"\n"},
		{name: "bad port", env: map[string]string{"CAMPUSNAV_HTTP_PORT": "99999"}},
		{name: "bad duration", env: map[string]string{"CAMPUSNAV_CACHE_TTL": "soon"}},
		{name: "bad origin", env: map[string]string{"CAMPUSNAV_DEFAULT_ORIGIN": "95,10"}},
		{name: "edges file with survey order", content: "[network]\nnodes = \"points.csv\"\nedges = \"edges.csv\"\n"},
		{name: "edges file with linkage", content: "[network]\nedges = \"edges.csv\"\npolicy = \"linkage\"\n"},
		{name: "osm with survey order", content: "[network]\nformat = \"osm\"\nnodes = \"campus.osm\"\n"},
		{name: "pbf via env", env: map[string]string{"CAMPUSNAV_NETWORK_FORMAT": "pbf"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.content != "" {
				path = writeConfig(t, tc.content)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestParseLatLon(t *testing.T) {
	pt, err := ParseLatLon("12.193116,79.084481")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 12.193116 || pt.Lon != 79.084481 {
		t.Errorf("unexpected point %v", pt)
	}
	for _, bad := range []string{"", "1", "a,b", "1,2,3"} {
		if _, err := ParseLatLon(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateExplicitEdges(t *testing.T) {
	cfg := Default()
	cfg.Network.Nodes = "points.csv"
	cfg.Network.Edges = "edges.csv"
	cfg.Network.Policy = "explicit"
	if err := cfg.Validate(); err != nil {
		t.Errorf("edges file with explicit policy must be accepted: %v", err)
	}
	cfg.Network.Edges = ""
	cfg.Network.Format = "pbf"
	if err := cfg.Validate(); err != nil {
		t.Errorf("pbf with explicit policy must be accepted: %v", err)
	}
}
