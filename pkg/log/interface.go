// Package log provides the structured logging interface used by scitree estimators.
//
// The Logger interface is slog-compatible so that callers can plug in any backend;
// the default provider writes through zerolog. Estimators obtain a named logger
// at fit time and attach the standard attribute keys from attributes.go:
//
//	logger := log.GetLoggerWithName("tree").With(log.ModelNameKey, "DecisionTree")
//	logger.Info("fit completed",
//	    log.SamplesKey, 100,
//	    log.FeaturesKey, 4,
//	    log.DepthKey, 3,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. If the first field passed to Error is
// an error value, implementations record it under the "error" key.
type Logger interface {
	// Debug logs detailed diagnostic information such as per-round boosting errors.
	Debug(msg string, fields ...any)

	// Info logs general operational information such as fit start and completion.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation, for example a
	// truncated ensemble.
	Warn(msg string, fields ...any)

	// Error logs error conditions.
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level, so
	// callers can skip building expensive messages such as full tree dumps.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. Tests swap it with
// SetProvider to capture estimator output.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created afterwards.
	SetLevel(level Level)
}
