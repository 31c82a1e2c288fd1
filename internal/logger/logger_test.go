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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestInitTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "info", true)

	Debug("hidden")
	With("component", "test").Info("hello", "n", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "debug", false)

	assert.Same(t, Get(), WithContext(context.Background()))

	scoped := Get().With("request_id", "abc")
	ctx := IntoContext(context.Background(), scoped)
	assert.Same(t, scoped, WithContext(ctx))

	WithContext(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "request_id=abc")
}
