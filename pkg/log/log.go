// Package log configures the process-wide slog logger shared by the
// runway binaries.
package log

import (
	"log/slog"
	"os"
)

// Setup installs the default logger. Level accepts the slog level names
// (debug, info, warn, error); anything else falls back to info. Set
// LOG_FORMAT=json for machine-readable output.
func Setup(logLevel string) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// WithModule returns the default logger tagged with the module name.
// Every package logs through one of these so records are attributable.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
