package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper so callers don't import zap directly
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger. Verbose enables debug output and
// caller annotations.
func NewLogger(verbose bool) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableCaller = true
	}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}

	return &Logger{logger.Sugar()}
}

// NewNopLogger discards all output, for tests.
func NewNopLogger() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
