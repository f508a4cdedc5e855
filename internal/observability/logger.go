// Package observability wires the global zap logger. Operator-facing
// progress lines go straight to stdout; zap carries diagnostics
// (locator attempts, fallback outcomes, timings) on stderr so the two
// streams stay separable.
package observability

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// Initialize sets up the global logger once. verbose enables debug level.
func Initialize(verbose bool) {
	once.Do(func() {
		level := zap.InfoLevel
		if verbose {
			level = zap.DebugLevel
		}

		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			level,
		)
		logger := zap.New(core).Named("kindle-fetch")
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// L returns the global logger, falling back to a no-op logger when
// Initialize has not been called (e.g. in tests).
func L() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// Sync flushes buffered log entries; call before exiting.
func Sync() {
	if logger := globalLogger.Load(); logger != nil {
		_ = logger.Sync()
	}
}
