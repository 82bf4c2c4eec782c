package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// MessageIDKey is the context key for the message identification of the batch being generated
	MessageIDKey contextKey = "message_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, a no-op logger if there is none
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithMessageID records the message identification in the context and
// returns the logger enriched with it
func WithMessageID(ctx context.Context, logger *zap.Logger, messageID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, MessageIDKey, messageID)
	enriched := logger.With(zap.String("message_id", messageID))
	return WithContext(ctx, enriched), enriched
}

// GetMessageID retrieves the message identification from context
func GetMessageID(ctx context.Context) string {
	if id, ok := ctx.Value(MessageIDKey).(string); ok {
		return id
	}
	return ""
}
