// Package logging configures the process-wide slog logger.
//
// Development runs get colored tint output on stderr; production runs get
// JSON on stdout so the lines can be shipped as-is.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger for the given LOG_LEVEL value and
// environment name.
func Setup(level, environment string) {
	if environment == "production" {
		slog.SetDefault(slog.New(NewJSONHandler(os.Stdout, ParseLevel(level))))
		return
	}
	slog.SetDefault(slog.New(NewTintHandler(os.Stderr, ParseLevel(level))))
}

// NewTintHandler returns a colored handler writing to w.
func NewTintHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// NewJSONHandler returns a JSON handler writing to w.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
