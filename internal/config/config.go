// Package config provides configuration loading for projectd.
//
// Configuration starts from Default, is overlaid with an optional YAML file and
// finally with PROJECTD_* environment variables. See Load for the precedence
// rules.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete projectd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// RateLimit is the allowed requests per second per client IP. 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`
}

// StoreConfig holds project store behavior.
type StoreConfig struct {
	RejectDuplicates bool `koanf:"reject_duplicates"`
}

// LoggingConfig holds the subset of logging settings exposed to operators.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"` // "grpc" or "http/protobuf"
	Insecure       bool     `koanf:"insecure"`
	ServiceName    string   `koanf:"service_name"`
	SamplingRate   float64  `koanf:"sampling_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// EventsConfig holds project change event publishing settings.
type EventsConfig struct {
	NATSURL       string `koanf:"nats_url"` // empty disables publishing
	SubjectPrefix string `koanf:"subject_prefix"`
}

// Default returns the configuration used when nothing is overridden.
//
// The default port is 3000.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "projectd",
			SamplingRate:   1.0,
			ExportInterval: Duration(15 * time.Second),
		},
		Events: EventsConfig{
			SubjectPrefix: "projectd",
		},
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Rate limit is negative
//   - Log format is not json or console
//   - Telemetry protocol is unknown or sampling rate is outside [0, 1]
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	switch c.Telemetry.Protocol {
	case "grpc", "http/protobuf":
	default:
		return fmt.Errorf("unknown telemetry protocol %q (expected grpc or http/protobuf)", c.Telemetry.Protocol)
	}

	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("telemetry sampling rate must be between 0 and 1, got %f", c.Telemetry.SamplingRate)
	}

	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return errors.New("service name required when telemetry is enabled")
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
