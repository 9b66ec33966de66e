// Package logging builds the slog loggers shared by sentimix components.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a text slog.Logger writing to w at the given level.
func New(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromString(level),
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString maps a config level name to a slog.Level. Unknown values mean warn.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}
