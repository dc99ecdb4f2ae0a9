package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fyrsmithlabs/projectd/internal/project"
	"github.com/fyrsmithlabs/projectd/internal/telemetry"
)

func TestHTTPMetrics_MetricsMiddleware(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	srv, _ := setupTestServer(t, nil, WithMeter(tt.Meter(httpInstrumentationName)))

	doRequest(t, srv, http.MethodPost, "/projects", map[string]string{"id": "abc", "title": "A"})
	doRequest(t, srv, http.MethodPut, "/projects/abc", map[string]string{"title": "B"})
	doRequest(t, srv, http.MethodPut, "/projects/zzz", map[string]string{"title": "B"})

	rm := tt.Collect(t)

	requests, ok := telemetry.FindMetric(rm, "projectd.http.requests_total")
	require.True(t, ok, "requests_total metric missing")
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byLabel := map[string]int64{}
	for _, dp := range sum.DataPoints {
		endpoint, _ := dp.Attributes.Value("endpoint")
		status, _ := dp.Attributes.Value("status")
		byLabel[endpoint.AsString()+" "+status.Emit()] += dp.Value
	}
	assert.Equal(t, map[string]int64{
		"/projects 200":     1,
		"/projects/:id 200": 1,
		"/projects/:id 400": 1,
	}, byLabel)

	for _, name := range []string{
		"projectd.http.request_duration_seconds",
		"projectd.http.response_size_bytes",
		"projectd.http.active_requests",
	} {
		_, ok := telemetry.FindMetric(rm, name)
		assert.True(t, ok, "metric %s missing", name)
	}
}

func TestNewHTTPMetrics_NilLogger(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	m := NewHTTPMetrics(tt.Meter("test"), nil)
	assert.NotNil(t, m.requestsTotal)
	assert.NotNil(t, m.logger)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/projects/:id", routeLabel("/projects/:id"))
	assert.Equal(t, "unmatched", routeLabel(""))
}

func TestTracing(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	srv, tl := setupTestServer(t, failingStore{Manager: project.NewStore()},
		WithTracer(tt.Tracer(httpInstrumentationName)))

	doRequest(t, srv, http.MethodPost, "/projects", map[string]string{"id": "1", "title": "A"})
	doRequest(t, srv, http.MethodGet, "/projects", nil)

	span := tt.SpanByName("POST /projects")
	require.NotNil(t, span)
	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "POST", attrs["http.request.method"])
	assert.Equal(t, "/projects", attrs["http.route"])
	assert.Equal(t, "200", attrs["http.response.status_code"])
	assert.Equal(t, codes.Unset, span.Status().Code)

	failed := tt.SpanByName("GET /projects")
	require.NotNil(t, failed)
	assert.Equal(t, codes.Error, failed.Status().Code)

	// Request logs carry the span's trace ID.
	entries := tl.FilterMessage("total of requests").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].ContextMap()["trace_id"])
}
