package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup installs a JSON logger writing to w as the process default. Extra
// handlers, such as the database sink, receive the same records.
func Setup(w io.Writer, level string, extra ...slog.Handler) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
