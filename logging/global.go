// Package logging wires slog to the console and to weekly rotating log files,
// and exposes package-level helpers usable before Init runs.
package logging

import (
	"log/slog"
	"os"
)

// Service bundles the configured logger with the file writer behind it so
// Close can release the file.
type Service struct {
	Logger *slog.Logger
	writer *RotatingWriter
}

var active *Service

// Init builds the global logger: text output on stdout, JSON output into a
// rotating weekly file under logDir. A directory that cannot be created
// degrades to console-only logging rather than failing startup.
func Init(logDir string, level slog.Level, retentionWeeks int, maxFileSize int64) {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("log directory unavailable, console only", "dir", logDir, "error", err)
		active = &Service{Logger: logger}
		slog.SetDefault(logger)
		return
	}

	writer := NewRotatingWriter(logDir, retentionWeeks, maxFileSize)
	file := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	logger := slog.New(&multiHandler{handlers: []slog.Handler{console, file}})

	active = &Service{Logger: logger, writer: writer}
	slog.SetDefault(logger)
}

// Close stops the rotating writer. Safe to call when Init never ran.
func Close() {
	if active != nil && active.writer != nil {
		if err := active.writer.Close(); err != nil {
			slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn("closing log writer", "error", err)
		}
	}
}

// Logger returns the active slog logger for callers that need the full API,
// such as the request logging middleware.
func Logger() *slog.Logger {
	return base()
}

// base returns the configured logger, or a stderr fallback so early callers
// (config loading, tests) never lose messages.
func base() *slog.Logger {
	if active != nil && active.Logger != nil {
		return active.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func Info(msg string, args ...any)  { base().Info(msg, args...) }
func Warn(msg string, args ...any)  { base().Warn(msg, args...) }
func Error(msg string, args ...any) { base().Error(msg, args...) }
func Debug(msg string, args ...any) { base().Debug(msg, args...) }
