package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 65536 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "shutdown timeout must be positive",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit = -1 },
			wantErr: "rate limit cannot be negative",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging format",
		},
		{
			name:    "unknown telemetry protocol",
			mutate:  func(c *Config) { c.Telemetry.Protocol = "udp" },
			wantErr: "unknown telemetry protocol",
		},
		{
			name:    "sampling rate above one",
			mutate:  func(c *Config) { c.Telemetry.SamplingRate = 1.5 },
			wantErr: "sampling rate",
		},
		{
			name: "telemetry without service name",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.ServiceName = ""
			},
			wantErr: "service name required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-1s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestDuration_Marshal(t *testing.T) {
	d := Duration(90 * time.Second)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(data))
}
