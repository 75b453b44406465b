package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DIMBOARD_"

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Provider ProviderConfig `koanf:"provider"`
	Session  SessionConfig  `koanf:"session"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeKB int    `koanf:"max_body_size_kb"`
	Mode          string `koanf:"mode"` // debug | release
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

type CatalogConfig struct {
	// Path to a YAML catalog replacing the built-in tables. Empty keeps the built-in one.
	Path string `koanf:"path"`
}

type ProviderConfig struct {
	Type                string       `koanf:"type"`    // mock | remote
	Latency             string       `koanf:"latency"` // parsed and validated on startup
	Seed                uint64       `koanf:"seed"`
	OnEmptyFilterResult string       `koanf:"on_empty_filter_result"`
	Remote              RemoteConfig `koanf:"remote"`
}

type RemoteConfig struct {
	URL     string `koanf:"url"`
	Timeout string `koanf:"timeout"`
}

type SessionConfig struct {
	Capacity int `koanf:"capacity"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LatencyDuration returns the parsed mock latency. Call after Validate.
func (c ProviderConfig) LatencyDuration() time.Duration {
	d, _ := time.ParseDuration(c.Latency)
	return d
}

// TimeoutDuration returns the parsed remote timeout. Call after Validate.
func (c RemoteConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeKB <= 0 {
		return fmt.Errorf("server.max_body_size_kb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	if c.Catalog.Path != "" {
		if _, err := os.Stat(c.Catalog.Path); err != nil {
			return fmt.Errorf("catalog.path %q is not accessible: %w", c.Catalog.Path, err)
		}
	}

	switch c.Provider.OnEmptyFilterResult {
	case "fallbackToUnfiltered", "returnEmpty":
	default:
		return fmt.Errorf("invalid provider.on_empty_filter_result %q (must be fallbackToUnfiltered or returnEmpty)", c.Provider.OnEmptyFilterResult)
	}
	switch c.Provider.Type {
	case "mock":
		latency, err := time.ParseDuration(c.Provider.Latency)
		if err != nil {
			return fmt.Errorf("invalid provider.latency %q: %w", c.Provider.Latency, err)
		}
		if latency < 0 {
			return fmt.Errorf("provider.latency must be >= 0")
		}
	case "remote":
		if strings.TrimSpace(c.Provider.Remote.URL) == "" {
			return fmt.Errorf("provider.remote.url is required for the remote provider")
		}
		timeout, err := time.ParseDuration(c.Provider.Remote.Timeout)
		if err != nil {
			return fmt.Errorf("invalid provider.remote.timeout %q: %w", c.Provider.Remote.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("provider.remote.timeout must be > 0")
		}
	default:
		return fmt.Errorf("unsupported provider.type %q", c.Provider.Type)
	}

	if c.Session.Capacity <= 0 {
		return fmt.Errorf("session.capacity must be > 0")
	}

	return nil
}

// Load parses config from defaults, file and env, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                     8080,
		"server.host":                     "0.0.0.0",
		"server.max_body_size_kb":         64,
		"server.mode":                     "release",
		"log.level":                       "info",
		"log.format":                      "text",
		"catalog.path":                    "",
		"provider.type":                   "mock",
		"provider.latency":                "800ms",
		"provider.seed":                   0,
		"provider.on_empty_filter_result": "fallbackToUnfiltered",
		"provider.remote.url":             "",
		"provider.remote.timeout":         "10s",
		"session.capacity":                1000,
		"metrics.enabled":                 true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
