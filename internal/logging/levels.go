package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below zapcore.DebugLevel.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a configured log level. It accepts "trace" in
// addition to the names zapcore understands; unknown names return InfoLevel
// with the parse error.
func LevelFromString(level string) (zapcore.Level, error) {
	if strings.EqualFold(level, "trace") {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
