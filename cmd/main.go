package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/simple-observability/config"
	"github.com/angeloszaimis/simple-observability/internal/httpserver"
	"github.com/angeloszaimis/simple-observability/internal/metrics"
	"github.com/angeloszaimis/simple-observability/pkg/dashboard"
	"github.com/angeloszaimis/simple-observability/pkg/health"
	"github.com/angeloszaimis/simple-observability/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		AddSource:   cfg.Logging.AddSource,
		Environment: cfg.Server.Environment,
		Service:     cfg.Server.Name,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(100, log)
	collector.Start(ctx)

	store, err := loadDashboard(cfg.Dashboard, log, collector)
	if err != nil {
		log.Error("Failed to load dashboard configuration",
			slog.String("file", cfg.Dashboard.SettingsFile),
			slog.Any("err", err))
		os.Exit(1)
	}

	if cfg.Dashboard.ReloadOnChange {
		store.Watch()
		log.Info("Watching dashboard settings", slog.String("file", cfg.Dashboard.SettingsFile))
	}

	mux := setupRouter(collector, selfReport(cfg, store, time.Now()))

	srv, err := httpserver.New(cfg.Server.Address, mux, httpserver.WithLogger(log))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Server started",
		slog.String("address", srv.Addr()),
		slog.String("version", version),
		slog.Any("environments", store.Current().Environments()))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// loadDashboard reads the dashboard settings file and returns a store holding
// the configured section. Watching is left to the caller.
func loadDashboard(dc config.DashboardConfig, log *slog.Logger, observers ...dashboard.Observer) (*dashboard.Store, error) {
	source := dashboard.NewSource()

	err := dashboard.AddSettingsFile(source, dc.SettingsFile,
		dashboard.WithOptional(dc.Optional),
		dashboard.WithReloadOnChange(false),
	)
	if err != nil {
		return nil, err
	}

	return dashboard.NewStore(source, dc.Section, log, observers...)
}

// selfReport describes this process for its own health endpoint. The
// daemon is degraded while no service is enabled in the dashboard.
func selfReport(cfg *config.Config, store *dashboard.Store, started time.Time) func() health.Metadata {
	host, _ := os.Hostname()

	return func() health.Metadata {
		current := store.Current()

		status := health.StatusHealthy
		if len(current.EnabledServices()) == 0 {
			status = health.StatusDegraded
		}

		return health.NewMetadata(cfg.Server.Name, version,
			health.WithEnvironment(cfg.Server.Environment),
			health.WithStatus(status),
			health.WithHostName(host),
			health.WithDescription("Dashboard configuration service"),
			health.WithUptime(time.Since(started).Truncate(time.Second)),
			health.WithAdditionalMetadata(map[string]string{
				"services":     strconv.Itoa(len(current.Services)),
				"environments": strings.Join(current.Environments(), ","),
				"refresh":      current.RefreshInterval().String(),
			}),
		)
	}
}
