package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectd/internal/logging"
	"github.com/fyrsmithlabs/projectd/internal/project"
)

const httpInstrumentationName = "github.com/fyrsmithlabs/projectd/internal/http"

// HTTPMetrics holds the OpenTelemetry HTTP instruments.
type HTTPMetrics struct {
	meter          metric.Meter
	logger         *logging.Logger
	requestsTotal  metric.Int64Counter
	requestDur     metric.Float64Histogram
	responseSize   metric.Int64Histogram
	activeRequests metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter, logger *logging.Logger) *HTTPMetrics {
	if logger == nil {
		logger = logging.NewNop()
	}

	m := &HTTPMetrics{
		meter:  meter,
		logger: logger,
	}
	m.init()
	return m
}

func (m *HTTPMetrics) init() {
	ctx := context.Background()
	var err error

	m.requestsTotal, err = m.meter.Int64Counter(
		"projectd.http.requests_total",
		metric.WithDescription("Total HTTP requests labeled by method, route template and status code."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create requests counter", zap.Error(err))
	}

	m.requestDur, err = m.meter.Float64Histogram(
		"projectd.http.request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds, labeled by method, route template and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create duration histogram", zap.Error(err))
	}

	m.responseSize, err = m.meter.Int64Histogram(
		"projectd.http.response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes. Grows with the project list."),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 5000, 10000, 50000, 100000, 500000),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create response size histogram", zap.Error(err))
	}

	m.activeRequests, err = m.meter.Int64UpDownCounter(
		"projectd.http.active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create active requests gauge", zap.Error(err))
	}
}

// MetricsMiddleware returns an Echo middleware that records HTTP metrics.
func (m *HTTPMetrics) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx := req.Context()

			if m.activeRequests != nil {
				m.activeRequests.Add(ctx, 1)
			}

			err := next(c)

			attrs := metric.WithAttributes(
				attribute.String("method", req.Method),
				attribute.String("endpoint", routeLabel(c.Path())),
				attribute.Int("status", c.Response().Status),
			)

			if m.requestsTotal != nil {
				m.requestsTotal.Add(ctx, 1, attrs)
			}
			if m.requestDur != nil {
				m.requestDur.Record(ctx, time.Since(start).Seconds(), attrs)
			}
			if m.responseSize != nil {
				m.responseSize.Record(ctx, c.Response().Size, attrs)
			}
			if m.activeRequests != nil {
				m.activeRequests.Add(ctx, -1)
			}

			return err
		}
	}
}

// routeLabel returns the route template (/projects/:id) so project IDs never
// become label values. Unrouted requests share one label.
func routeLabel(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}

// promMetrics are the Prometheus collectors served on /metrics.
type promMetrics struct {
	requests prometheus.Counter
}

// statsProvider is implemented by stores that can report their size.
type statsProvider interface {
	Stats(ctx context.Context) project.Stats
}

func newPromMetrics(reg *prometheus.Registry, store project.Manager) *promMetrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &promMetrics{
		requests: factory.NewCounter(prometheus.CounterOpts{
			Name: "projectd_http_requests_total",
			Help: "Total number of HTTP requests received",
		}),
	}

	if sp, ok := store.(statsProvider); ok {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "projectd_store_projects",
			Help: "Current number of projects in the store",
		}, func() float64 {
			return float64(sp.Stats(context.Background()).Projects)
		})
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "projectd_store_tasks",
			Help: "Current number of tasks across all projects",
		}, func() float64 {
			return float64(sp.Stats(context.Background()).Tasks)
		})
	}

	return m
}
