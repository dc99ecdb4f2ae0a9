// Package http provides the HTTP API for projectd.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectd/internal/config"
	"github.com/fyrsmithlabs/projectd/internal/logging"
	"github.com/fyrsmithlabs/projectd/internal/project"
)

// Server provides HTTP endpoints for projectd.
type Server struct {
	echo     *echo.Echo
	store    project.Manager
	logger   *logging.Logger
	config   *Config
	registry *prometheus.Registry
	prom     *promMetrics

	requests atomic.Int64
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	// RateLimit is requests per second per client IP. 0 disables limiting.
	RateLimit   float64
	ServiceName string
}

// NewDefaultConfig returns the default server configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Port:            3000,
		ShutdownTimeout: 10 * time.Second,
		ServiceName:     "projectd",
	}
}

// ConfigFrom converts the server section of the application config.
func ConfigFrom(cfg config.ServerConfig, serviceName string) *Config {
	return &Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ShutdownTimeout: cfg.ShutdownTimeout.Duration(),
		RateLimit:       cfg.RateLimit,
		ServiceName:     serviceName,
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type options struct {
	meter    metric.Meter
	tracer   trace.Tracer
	registry *prometheus.Registry
}

// Option configures a Server.
type Option func(*options)

// WithMeter sets the OpenTelemetry meter for HTTP metrics.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithTracer sets the OpenTelemetry tracer for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithRegistry sets the Prometheus registry served on /metrics.
// A registry can back only one server.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) { o.registry = r }
}

// NewServer creates a new HTTP server backed by store.
func NewServer(store project.Manager, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.meter == nil {
		o.meter = otel.Meter(httpInstrumentationName)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(httpInstrumentationName)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		store:    store,
		logger:   logger,
		config:   cfg,
		registry: o.registry,
		prom:     newPromMetrics(o.registry, store),
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(s.middleware(tracing(o.tracer), NewHTTPMetrics(o.meter, logger))...)
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", s.handleMetrics())

	s.echo.GET("/projects", s.handleList)
	s.echo.POST("/projects", s.handleCreate,
		bindBody, requireFields(fieldID, fieldTitle))
	s.echo.POST("/projects/:id/tasks", s.handleAddTask,
		requireProject(s.store), bindBody, requireFields(fieldTitle))
	s.echo.PUT("/projects/:id", s.handleRename,
		requireProject(s.store), bindBody, requireFields(fieldTitle))
	s.echo.DELETE("/projects/:id", s.handleDelete,
		requireProject(s.store))
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
//
// Returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()
	s.logger.Info(ctx, "starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server", zap.Int64("requests_total", s.Requests()))
	return s.echo.Shutdown(ctx)
}
