package machine

import (
	"context"
	"log/slog"
)

// LevelTrace sits just above Info so per-word load traffic can be
// enabled without drowning normal logs.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a message at the trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
