package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&Config{Level: "info", Format: "json"}, &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New(&Config{Level: "info", Format: "text"}, &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	New(&Config{Level: "warn", Format: "text"}, &buf).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&Config{Level: "debug", Format: "text"}, &buf))
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	ctx = context.WithValue(ctx, BatchIDKey, "batch-9")
	Info(ctx, "test message", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-123")
	assert.Contains(t, out, "batch_id=batch-9")
	assert.Contains(t, out, "key=value")
}
