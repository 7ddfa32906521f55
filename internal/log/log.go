// Package log configures structured logging for the dashboard.
//
// Output is slog: text for interactive development, JSON when running in
// production (GO_ENV=production or LOG_FORMAT=json). Packages obtain a
// tagged logger through Component instead of repeating the attribute.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the process logger at the given level. The first call
// wins; later calls are no-ops.
func Init(level string) {
	once.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}

		var handler slog.Handler
		if jsonOutput() {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

// L returns the process logger, initializing from the environment on
// first use.
func L() *slog.Logger {
	if logger == nil {
		Init(os.Getenv("LOG_LEVEL"))
	}
	return logger
}

// Component returns the process logger tagged with a component name.
func Component(name string) *slog.Logger {
	return L().With("component", name)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func jsonOutput() bool {
	return os.Getenv("LOG_FORMAT") == "json" || os.Getenv("GO_ENV") == "production"
}
