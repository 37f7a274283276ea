package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Zoker94/escrow-room-service/internal/config"
)

func New(cfg config.LogConfig, serviceName, env string) *slog.Logger {
	lvl := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}

	logger := slog.New(handler)
	return logger.With(
		slog.String("service", serviceName),
		slog.String("env", env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
