package app

import (
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger; the global logger is left
// alone so embedding hosts keep their own. Unknown levels and formats fall
// back to info-level text.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
