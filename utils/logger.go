package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
)

// Logger provides leveled printf-style logging on top of slog.
type Logger struct {
	slog *slog.Logger
}

// LoggerOptions configures NewLoggerWithOptions. Zero values give an info-level
// colored logger on stdout.
type LoggerOptions struct {
	Writer  io.Writer
	Level   slog.Leveler
	NoColor bool
	// Fluent, when set, receives a copy of every record.
	Fluent *fluent.Fluent
}

// NewLogger creates a new Logger writing to stdout at info level.
func NewLogger() *Logger {
	return NewLoggerWithOptions(LoggerOptions{})
}

// NewLoggerWithOptions builds a tint-backed Logger, optionally fanning out to Fluent Bit.
func NewLoggerWithOptions(opts LoggerOptions) *Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler = tint.NewHandler(opts.Writer, &tint.Options{
		Level:      opts.Level,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    opts.NoColor,
	})
	if opts.Fluent != nil {
		handler = newMultiHandler(handler, newFluentHandler(opts.Fluent, opts.Level))
	}
	return &Logger{slog: slog.New(handler)}
}

// ParseLevel maps a LOG_LEVEL string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
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

// With returns a Logger that attaches the given key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}
