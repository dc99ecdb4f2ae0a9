// Package telemetry provides OpenTelemetry instrumentation for projectd.
//
// # Overview
//
// The package builds a TracerProvider and MeterProvider exporting over OTLP
// (gRPC by default, HTTP/protobuf optionally) and installs them as the otel
// globals. When disabled, Tracer and Meter fall back to the no-op globals.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.Telemetry, version))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	meter := tel.Meter("github.com/fyrsmithlabs/projectd/internal/http")
//
// # Testing
//
// NewTestTelemetry records spans in memory and exposes a ManualReader for
// metric assertions.
package telemetry
