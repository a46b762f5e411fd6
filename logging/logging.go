// Package logging configures the process-wide slog logger. Standard output
// carries the match protocol, so console logs go to the writer given
// (normally stderr) and never to stdout.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a text logger writing to console and, if non-nil, file, and
// installs it as the slog default.
func Setup(console io.Writer, level string, file io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, handlerOpts))
	}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	logger := slog.New(NewMultiHandler(handlers...))
	slog.SetDefault(logger)
	logger.Info("logging initialized", "level", parseLevel(level).String())
	return logger
}
