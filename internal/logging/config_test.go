package logging

import (
	"testing"

	"github.com/fyrsmithlabs/projectd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Caller.Enabled)
	assert.Equal(t, 1, cfg.Caller.Skip)
	assert.Equal(t, zapcore.ErrorLevel, cfg.Stacktrace.Level)
	assert.Equal(t, "projectd", cfg.Fields["service"])
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "format must be 'json' or 'console'",
		},
		{
			name:    "negative caller skip",
			mutate:  func(c *Config) { c.Caller.Skip = -1 },
			wantErr: "caller skip must be >= 0",
		},
		{
			name:    "empty field key",
			mutate:  func(c *Config) { c.Fields[""] = "x" },
			wantErr: "field key cannot be empty",
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields["env"] = "" },
			wantErr: `field "env" has empty value`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
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

func TestConfigFrom(t *testing.T) {
	t.Run("maps level, format and service", func(t *testing.T) {
		cfg, err := ConfigFrom(config.LoggingConfig{Level: "debug", Format: "console"}, "tracker")
		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "tracker", cfg.Fields["service"])
	})

	t.Run("supports trace level", func(t *testing.T) {
		cfg, err := ConfigFrom(config.LoggingConfig{Level: "trace"}, "")
		require.NoError(t, err)
		assert.Equal(t, TraceLevel, cfg.Level)
		assert.Equal(t, "json", cfg.Format)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := ConfigFrom(config.LoggingConfig{Level: "loud"}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := ConfigFrom(config.LoggingConfig{Format: "xml"}, "")
		require.Error(t, err)
	})
}
