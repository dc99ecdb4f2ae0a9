// Package telemetry provides OpenTelemetry instrumentation for projectd.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/projectd/internal/config"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled         bool
	Endpoint        string
	Protocol        string // "grpc" (default) or "http/protobuf"
	ServiceName     string
	ServiceVersion  string
	Insecure        bool // Use insecure connection (no TLS)
	SamplingRate    float64
	ExportInterval  time.Duration
	ShutdownTimeout time.Duration
}

// NewDefaultConfig returns telemetry defaults. Telemetry is disabled by
// default for deployments without an OTEL collector.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:         false,
		Endpoint:        "localhost:4317",
		Protocol:        "grpc",
		ServiceName:     "projectd",
		ServiceVersion:  "dev",
		Insecure:        true,
		SamplingRate:    1.0,
		ExportInterval:  15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// ConfigFrom builds a telemetry config from the application config.
func ConfigFrom(cfg config.TelemetryConfig, version string) *Config {
	tc := NewDefaultConfig()
	tc.Enabled = cfg.Enabled
	tc.Endpoint = cfg.Endpoint
	tc.Protocol = cfg.Protocol
	tc.ServiceName = cfg.ServiceName
	tc.Insecure = cfg.Insecure
	tc.SamplingRate = cfg.SamplingRate
	if cfg.ExportInterval > 0 {
		tc.ExportInterval = cfg.ExportInterval.Duration()
	}
	if version != "" {
		tc.ServiceVersion = version
	}
	return tc
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}

	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}

	// Security: Prevent insecure connections to remote endpoints
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false for TLS or use a local endpoint (localhost/127.0.0.1)")
	}

	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got %f", c.SamplingRate)
	}

	if c.ExportInterval <= 0 {
		return fmt.Errorf("export interval must be positive")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// isLocalEndpoint checks if the endpoint is a local address.
func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)

	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6: [::1]:4317
		if idx := strings.Index(host, "]"); idx != -1 {
			host = host[1:idx]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.LastIndex(host, ":")]
	}

	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.")
}
