package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New creates a slog.Logger writing to stderr with the provided level and format.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter builds a logger on top of w. Format "json" emits one JSON object
// per record; anything else renders human-readable lines.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := levelFromString(level)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "tubedigest",
		Level:           charmLevel(lvl),
	})
	return slog.New(handler)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch level {
	case slog.LevelError:
		return charmlog.ErrorLevel
	case slog.LevelWarn:
		return charmlog.WarnLevel
	case slog.LevelInfo:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}
