package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())

	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("dropped") })
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(ctx))
}

func TestWithMessageID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithMessageID(context.Background(), base, "MSG-2024-001")

	assert.Equal(t, "MSG-2024-001", GetMessageID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	FromContext(ctx).Info("document rendered")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "MSG-2024-001", entries[0].ContextMap()["message_id"])
}

func TestGetMessageID_NotFound(t *testing.T) {
	assert.Empty(t, GetMessageID(context.Background()))
}
