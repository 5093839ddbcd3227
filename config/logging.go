package config

import (
	"io"
	"log/slog"
	"strings"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging installs a slog TextHandler writing to w as the default
// logger. Unknown level names fall back to INFO.
func ConfigureLogging(w io.Writer, level string) {
	logLevel.Set(ParseLevel(level))
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
