package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestTraceLevel(t *testing.T) {
	assert.Equal(t, int8(-2), int8(TraceLevel))
	assert.True(t, TraceLevel < zapcore.DebugLevel)
}

func TestTraceLevelEnabler(t *testing.T) {
	tests := []struct {
		name           string
		configLevel    zapcore.Level
		logLevel       zapcore.Level
		shouldBeLogged bool
	}{
		{"trace logged when trace enabled", TraceLevel, TraceLevel, true},
		{"debug logged when trace enabled", TraceLevel, zapcore.DebugLevel, true},
		{"trace not logged when debug enabled", zapcore.DebugLevel, TraceLevel, false},
		{"debug logged when debug enabled", zapcore.DebugLevel, zapcore.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shouldBeLogged, tt.configLevel.Enabled(tt.logLevel))
		})
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"trace", TraceLevel},
		{"TRACE", TraceLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := LevelFromString(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFromString_InvalidLevel(t *testing.T) {
	for _, input := range []string{"invalid", "123", "info extra"} {
		t.Run(input, func(t *testing.T) {
			level, err := LevelFromString(input)
			assert.Error(t, err)
			assert.Equal(t, zapcore.InfoLevel, level)
		})
	}
}
