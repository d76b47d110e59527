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
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	FromContext(ctx).Info("return created", zap.String("return_id", "RTN-2026-00001"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "RTN-2026-00001", logs[0].ContextMap()["return_id"])
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())

	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("noop") })
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	// Both the returned logger and the one stored in the context carry the
	// request id.
	enriched.Info("computing returnable quantity")
	FromContext(ctx).Info("assembling returnable items")

	logs := recorded.All()
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "req-123", entry.ContextMap()["request_id"])
	}
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
