package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	corecfg "github.com/aevon-lab/dimboard/internal/core/config"
	"github.com/aevon-lab/dimboard/internal/dashboard"
	"github.com/aevon-lab/dimboard/internal/dataapi"
	"github.com/aevon-lab/dimboard/internal/metrics"
	"github.com/aevon-lab/dimboard/internal/provider"
	"github.com/aevon-lab/dimboard/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults and DIMBOARD_* env when empty)")
	flag.Parse()

	// 0. Initialize Logger with defaults until config is known
	slog.SetDefault(newLogger(os.Stdout, "info", "text"))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format))
	slog.Info("Loaded config", "config", cfg)

	// 2. Load Dimension Catalog
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		slog.Error("Failed to load catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "path", cfg.Catalog.Path, "fingerprint", cat.Fingerprint())

	// 3. Initialize Metrics
	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	}

	// 4. Initialize Data Provider
	p, err := newProvider(cfg.Provider, m)
	if err != nil {
		slog.Error("Failed to initialize data provider", "error", err)
		os.Exit(1)
	}

	// 5. Initialize APIs
	dataSvc := dataapi.NewService(cat, p, cfg.Server.MaxBodySizeKB)
	store := dashboard.NewStore(cfg.Session.Capacity, m, slog.Default())
	dashboardSvc := dashboard.NewService(cat, p, store, m, cfg.Server.MaxBodySizeKB)

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, gatherer)
	srv.Register(dataSvc, dashboardSvc)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func newProvider(cfg corecfg.ProviderConfig, m *metrics.Metrics) (provider.Provider, error) {
	policy, err := provider.ParseEmptyFilterPolicy(cfg.OnEmptyFilterResult)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "mock":
		slog.Info("Using mock data provider",
			"latency", cfg.LatencyDuration(),
			"seed", cfg.Seed,
			"on_empty_filter_result", policy)
		mock := provider.NewMock(
			provider.WithLatency(cfg.LatencyDuration()),
			provider.WithSeed(cfg.Seed),
			provider.WithEmptyFilterPolicy(policy),
		)
		return provider.Instrument(mock, "mock", m, slog.Default()), nil
	case "remote":
		slog.Info("Using remote data provider", "url", cfg.Remote.URL, "timeout", cfg.Remote.TimeoutDuration())
		remote := provider.NewRemote(cfg.Remote.URL, cfg.Remote.TimeoutDuration(), slog.Default())
		return provider.Instrument(remote, "remote", m, slog.Default()), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", cfg.Type)
	}
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
