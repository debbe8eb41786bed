package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/anikor-backend/internal/config"
)

// NewLogger builds the process logger from LogConfig, writes to stderr and
// installs it as the slog default.
//
// Format "json" is meant for production, "text" for local runs and adds
// source positions. Unknown levels fall back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(newHandler(cfg, os.Stderr)).With(slog.String("app", "anikor"))
	slog.SetDefault(logger)
	return logger
}

func newHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(s string) slog.Level {
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
