package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the service logger. Every level method takes the request context
// and adds its request id and trace fields before the caller's fields.
type Logger struct {
	zap    *zap.Logger
	config *Config
}

// NewLogger creates a logger from config that writes to stdout.
func NewLogger(cfg *Config) (*Logger, error) {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo creates a logger from config that writes to w.
func NewLoggerTo(cfg *Config, w io.Writer) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(w), cfg.Level)

	opts := []zap.Option{}
	if cfg.Caller.Enabled {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.Caller.Skip))
	}
	if cfg.Stacktrace.Level != 0 {
		opts = append(opts, zap.AddStacktrace(cfg.Stacktrace.Level))
	}

	zapLogger := zap.New(core, opts...)

	if len(cfg.Fields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.Fields))
		for k, v := range cfg.Fields {
			fields = append(fields, zap.String(k, v))
		}
		zapLogger = zapLogger.With(fields...)
	}

	return &Logger{
		zap:    zapLogger,
		config: cfg,
	}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// Trace logs at TraceLevel. Read-only requests such as project listings log
// here so Debug stays limited to mutations.
func (l *Logger) Trace(ctx context.Context, msg string, fields ...zap.Field) {
	if !l.Enabled(TraceLevel) {
		return
	}
	l.zap.Log(TraceLevel, msg, withContext(ctx, fields)...)
}

// Debug logs store mutations and other per-request detail.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Debug(msg, withContext(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Info(msg, withContext(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Warn(msg, withContext(ctx, fields)...)
}

// Error logs failures that end up as 500 responses or abort startup.
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Error(msg, withContext(ctx, fields)...)
}

// withContext prepends the request-scoped fields carried by ctx.
func withContext(ctx context.Context, fields []zap.Field) []zap.Field {
	return append(ContextFields(ctx), fields...)
}

// With returns a child logger that always includes fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...), config: l.config}
}

// Named returns a child logger whose name is extended by name, e.g. "projectd.http".
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name), config: l.config}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if err := l.zap.Sync(); err != nil && !isStdoutSyncError(err) {
		return err
	}
	return nil
}

// Underlying exposes the zap logger for libraries that want one directly.
func (l *Logger) Underlying() *zap.Logger {
	return l.zap
}

// isStdoutSyncError matches the EINVAL/ENOTTY returned when fsync is called on
// a terminal or pipe.
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
