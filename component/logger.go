package component

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnv overrides the log level when no level is configured.
const LogLevelEnv = "MVCORE_LOG_LEVEL"

var (
	logger *zap.Logger
)

type loggerKey struct{}

func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger carried by ctx, else the default logger, else a no-op.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if ctxLogger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
			return ctxLogger
		}
	}
	if logger != nil {
		return logger
	}
	return zap.NewNop()
}

// SetDefaultLogger sets the logger returned for contexts without one.
func SetDefaultLogger(l *zap.Logger) {
	logger = l
}

// NewLogger builds a JSON logger writing to stderr. An empty level falls back to the
// MVCORE_LOG_LEVEL environment variable, then to info.
func NewLogger(level string) (*zap.Logger, error) {
	if len(level) <= 0 {
		level = os.Getenv(LogLevelEnv)
	}
	atomicLevel := zap.NewAtomicLevel()
	if len(level) > 0 {
		if err := atomicLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return cfg.Build()
}
