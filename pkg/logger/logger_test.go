package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_EmitsJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "info", &buf)

	l.Info("saved", slog.String("product_id", "P1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "wishlist", entry["component"])
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "P1", entry["product_id"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "warn", &buf)

	l.Info("should be dropped")
	assert.Zero(t, buf.Len())

	l.Warn("should be kept")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "verbose", &buf)

	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestContextRoundTrips(t *testing.T) {
	ctx := context.Background()

	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithScreen(ctx, "home")
	ctx = WithRequestID(ctx, "req-9")

	assert.Equal(t, "sess-1", SessionIDFromContext(ctx))
	assert.Equal(t, "home", ScreenFromContext(ctx))
	assert.Equal(t, "req-9", RequestIDFromContext(ctx))

	assert.Empty(t, SessionIDFromContext(context.Background()))
	assert.Empty(t, ScreenFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestWithContext_EnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("session", "info", &buf)

	ctx := WithScreen(WithSessionID(context.Background(), "sess-2"), "search")
	WithContext(ctx, base).Info("query issued")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sess-2", entry["session_id"])
	assert.Equal(t, "search", entry["screen"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	stored := NewWithWriter("focus", "info", &buf)
	ctx := NewContext(context.Background(), stored)
	assert.Same(t, stored, FromContext(ctx))
}
