// Package logging provides structured logging for projectd.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Automatic context field injection (trace_id, span_id, request.id)
//   - JSON or console encoding with ISO8601 timestamps
//
// # Usage
//
// Create logger from config:
//
//	cfg, err := logging.ConfigFrom(appCfg.Logging, "projectd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRequestID(ctx, "req_123")
//	logger.Info(ctx, "project created", zap.String("project_id", id))
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
