package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	RunIDKey  ctxKey = "run_id"
	LoggerKey ctxKey = "logger"
)

var globalLogger zerolog.Logger

// Init initializes the global logger. Log output goes to stderr; stdout is
// reserved for the emitted records.
func Init(level string, jsonFormat bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var output io.Writer = os.Stderr
	if !jsonFormat {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	globalLogger = zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "kanwarrior").
		Logger()
}

// Global returns the global logger
func Global() *zerolog.Logger {
	return &globalLogger
}

// Get returns the logger from the context, or the global one
func Get(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

// WithRunID adds run_id to the logger and context
func WithRunID(ctx context.Context, runID string) context.Context {
	l := globalLogger.With().Str("run_id", runID).Logger()
	ctx = context.WithValue(ctx, RunIDKey, runID)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

// GetRunID extracts run_id from the context
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}
