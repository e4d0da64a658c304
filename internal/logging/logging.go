// Package logging builds the diagnostic logger for the pylot CLI.
//
// The launcher's probes deliberately suppress their sub-process output
// from the operator; whatever those probes wrote to stderr is preserved
// here instead, at debug level. Every logger carries a run_id field so
// a run's diagnostic lines can be correlated.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for one launcher run. With verbose enabled the
// logger emits debug-level console output; otherwise only warnings and
// errors surface, keeping the operator's terminal clear for the target
// program's own output.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("run_id", uuid.NewString())), nil
}

// NewNop returns a logger that discards everything. Used by tests and by
// callers that have not been wired with a real logger yet.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
