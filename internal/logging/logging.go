// Package logging wires zap into logr for the whole program. Components
// receive their logger through the context (logr.NewContext /
// logr.FromContextOrDiscard) so that scenario computations stay free of
// process-wide mutable state.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels used with logger.V(...). INFO is the default level;
// DEBUG and TRACE are enabled by raising the configured verbosity.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// NewLogger builds a production logr.Logger at the given verbosity.
// Verbosity v enables logger.V(n) for n <= v.
func NewLogger(verbosity int) logr.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing startup.
		return logr.Discard()
	}
	return zapr.NewLogger(z)
}

// NewDevLogger builds a human-readable development logger, used by the CLI.
func NewDevLogger(verbosity int) logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(z)
}

// NewTestLogger builds a verbose development logger for test suites.
func NewTestLogger() logr.Logger {
	return NewDevLogger(TRACE)
}
