package api

import (
	"context"

	"market-scout/utils"
)

type traceIDKeyType struct{}
type loggerKeyType struct{}

var (
	traceIDKey = traceIDKeyType{}
	loggerKey  = loggerKeyType{}
)

// ContextWithTraceID stores the request trace id.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace id, or "" when none was set.
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ContextWithLogger stores a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *utils.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the request logger, or fallback when none was set.
func LoggerFromContext(ctx context.Context, fallback *utils.Logger) *utils.Logger {
	if logger, ok := ctx.Value(loggerKey).(*utils.Logger); ok {
		return logger
	}
	return fallback
}
