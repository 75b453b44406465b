package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dimboard.yaml")
	requireNoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	requireNoError(t, err)

	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" || cfg.Server.Mode != "release" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Provider.Type != "mock" {
		t.Fatalf("expected mock provider, got %q", cfg.Provider.Type)
	}
	if got := cfg.Provider.LatencyDuration(); got != 800*time.Millisecond {
		t.Fatalf("expected 800ms latency, got %s", got)
	}
	if cfg.Provider.OnEmptyFilterResult != "fallbackToUnfiltered" {
		t.Fatalf("unexpected empty filter policy %q", cfg.Provider.OnEmptyFilterResult)
	}
	if cfg.Session.Capacity != 1000 || !cfg.Metrics.Enabled {
		t.Fatalf("unexpected session/metrics defaults: %+v %+v", cfg.Session, cfg.Metrics)
	}
}

func TestLoad_ValidConfigFile(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	requireNoError(t, os.WriteFile(catalogPath, []byte("dimensions: {}\n"), 0o644))

	cfgPath := writeConfig(t, `
server:
  port: 9090
  host: "127.0.0.1"
  mode: "debug"
log:
  level: "debug"
  format: "json"
catalog:
  path: "`+catalogPath+`"
provider:
  type: "remote"
  on_empty_filter_result: "returnEmpty"
  remote:
    url: "http://warehouse.internal/v1/data"
    timeout: "3s"
session:
  capacity: 5
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)
	if cfg.Server.Port != 9090 || cfg.Log.Format != "json" || cfg.Catalog.Path != catalogPath {
		t.Fatalf("config file not applied: %+v", cfg)
	}
	if got := cfg.Provider.Remote.TimeoutDuration(); got != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", got)
	}
	if cfg.Session.Capacity != 5 {
		t.Fatalf("expected capacity 5, got %d", cfg.Session.Capacity)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := writeConfig(t, `
provider:
  latency: "1s"
`)
	t.Setenv("DIMBOARD_PROVIDER__LATENCY", "5ms")
	t.Setenv("DIMBOARD_PROVIDER__SEED", "42")
	t.Setenv("DIMBOARD_SERVER__PORT", "7070")

	cfg, err := Load(cfgPath)
	requireNoError(t, err)
	if got := cfg.Provider.LatencyDuration(); got != 5*time.Millisecond {
		t.Fatalf("expected env latency 5ms, got %s", got)
	}
	if cfg.Provider.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Provider.Seed)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("expected port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidConfigFailsStartup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "invalid port",
			body: "server:\n  port: -1\n",
			want: "invalid server.port",
		},
		{
			name: "invalid mode",
			body: "server:\n  mode: \"verbose\"\n",
			want: "invalid server.mode",
		},
		{
			name: "invalid log level",
			body: "log:\n  level: \"trace\"\n",
			want: "invalid log.level",
		},
		{
			name: "invalid latency",
			body: "provider:\n  latency: \"soon\"\n",
			want: "invalid provider.latency",
		},
		{
			name: "unknown provider",
			body: "provider:\n  type: \"postgres\"\n",
			want: "unsupported provider.type",
		},
		{
			name: "remote without url",
			body: "provider:\n  type: \"remote\"\n",
			want: "provider.remote.url is required",
		},
		{
			name: "invalid empty filter policy",
			body: "provider:\n  on_empty_filter_result: \"drop\"\n",
			want: "invalid provider.on_empty_filter_result",
		},
		{
			name: "missing catalog file",
			body: "catalog:\n  path: \"/does/not/exist.yaml\"\n",
			want: "catalog.path",
		},
		{
			name: "zero session capacity",
			body: "session:\n  capacity: 0\n",
			want: "session.capacity must be > 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
