package renderer

import (
	"context"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// slogLevel maps a raylib trace log level onto slog.
func slogLevel(level int) slog.Level {
	switch rl.TraceLogLevel(level) {
	case rl.LogAll, rl.LogTrace, rl.LogDebug:
		return slog.LevelDebug
	case rl.LogInfo:
		return slog.LevelInfo
	case rl.LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// InstallLogBridge forwards raylib's trace log to logger, dropping messages
// below minLevel before they are formatted.
func InstallLogBridge(logger *slog.Logger, minLevel rl.TraceLogLevel) {
	rl.SetTraceLogLevel(minLevel)
	rl.SetTraceLogCallback(func(level int, msg string) {
		logger.Log(context.Background(), slogLevel(level), strings.TrimSpace(msg), "source", "raylib")
	})
}
