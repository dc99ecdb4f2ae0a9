// Projectd is an in-memory project and task tracker served over HTTP.
//
// Configuration is loaded from an optional YAML file and PROJECTD_*
// environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults (port 3000)
//	projectd
//
//	# Use a config file and override the port
//	PROJECTD_SERVER_PORT=8080 projectd -config projectd.yaml
//
//	# Show version information
//	projectd version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectd/internal/config"
	"github.com/fyrsmithlabs/projectd/internal/events"
	httpserver "github.com/fyrsmithlabs/projectd/internal/http"
	"github.com/fyrsmithlabs/projectd/internal/logging"
	"github.com/fyrsmithlabs/projectd/internal/project"
	"github.com/fyrsmithlabs/projectd/internal/telemetry"
)

const instrumentationName = "github.com/fyrsmithlabs/projectd"

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (default $"+config.ConfigPathEnv+")")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  projectd [-config file]   Start the projectd server\n")
			fmt.Fprintf(os.Stderr, "  projectd version          Show version information\n")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "projectd: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("projectd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts projectd and blocks until ctx is cancelled.
//
// It loads configuration, then builds the logger, telemetry, event
// publisher, store and HTTP server in that order. A graceful shutdown
// returns nil.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg, err := logging.ConfigFrom(cfg.Logging, cfg.Telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting projectd",
		zap.String("version", version),
		zap.String("addr", cfg.Addr()),
		zap.Bool("reject_duplicates", cfg.Store.RejectDuplicates),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("events_enabled", cfg.Events.NATSURL != ""))

	tel, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.Telemetry, version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTelemetry(tel, logger)
	if health := tel.Health(); health.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.String("error", health.LastError))
	}

	publisher, err := initPublisher(ctx, cfg.Events, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close event publisher", zap.Error(err))
		}
	}()

	store := project.NewStore(
		project.WithRejectDuplicates(cfg.Store.RejectDuplicates),
		project.WithObserver(events.NewObserver(publisher, logger.Named("events"))),
	)

	srv, err := httpserver.NewServer(store, logger.Named("http"),
		httpserver.ConfigFrom(cfg.Server, cfg.Telemetry.ServiceName),
		httpserver.WithMeter(tel.Meter(instrumentationName)),
		httpserver.WithTracer(tel.Tracer(instrumentationName)),
	)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info(context.Background(), "server shutdown complete")
	return nil
}

// initPublisher connects to NATS when configured and falls back to a no-op
// publisher otherwise.
func initPublisher(ctx context.Context, cfg config.EventsConfig, logger *logging.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return events.Noop{}, nil
	}

	pub, err := events.Connect(cfg.NATSURL, cfg.SubjectPrefix,
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize events: %w", err)
	}

	logger.Info(ctx, "connected to NATS",
		zap.String("url", cfg.NATSURL),
		zap.String("subject_prefix", cfg.SubjectPrefix))
	return pub, nil
}

func shutdownTelemetry(tel *telemetry.Telemetry, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
}
