package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates the root *slog.Logger for the website backend, sets it as
// the default, and returns it. Component loggers derive from it via
// logger.With. The level parameter accepts: "debug", "info", "warn", "error"
// (case-insensitive); unrecognized values mean info.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler).With("service", "website")
	slog.SetDefault(logger)
	return logger
}
