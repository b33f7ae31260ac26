package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, b []byte) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &entry))

	return entry
}

func TestFromContext(t *testing.T) {
	assert.Same(t, defaultLogger.Load(), FromContext(nil)) //nolint:staticcheck // nil guard
	assert.Same(t, defaultLogger.Load(), FromContext(context.Background()))

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), custom)
	assert.Equal(t, custom, FromContext(ctx))
}

func TestLookup(t *testing.T) {
	_, ok := Lookup(context.Background())
	assert.False(t, ok)

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	got, ok := Lookup(WithContext(context.Background(), custom))
	assert.True(t, ok)
	assert.Equal(t, custom, got)

	_, ok = Lookup(WithContext(context.Background(), nil))
	assert.False(t, ok)
}

func TestContextIDs(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCorrelationID(ctx, "corr-1")
	ctx = WithSessionID(ctx, "sess-1")

	FromContext(ctx).InfoContext(ctx, "shown")

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "sess-1", entry["session_id"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger, closer := NewWithWriter(&Config{Level: "info", Format: "json", Service: "quotes", Version: "1.0.0"}, &buf)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("visible", slog.Int("count", 3))

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "quotes", entry["service_name"])
	assert.Equal(t, "1.0.0", entry["service_version"])
	assert.InDelta(t, 3, entry["count"], 0)
}

func TestNewWithWriter_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	logger, _ := NewWithWriter(&Config{Level: "trace"}, &buf)
	logger.Log(context.Background(), LevelTrace, "step started")

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "TRACE", entry["level"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger, _ := NewWithWriter(&Config{Format: "text"}, &buf)
	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer

	logger, _ := NewWithWriter(&Config{Format: "pretty", Level: "debug"}, &buf)
	logger.Info("quote shown")

	assert.Contains(t, buf.String(), "quote shown")
}

func TestNewWithWriter_Redacts(t *testing.T) {
	var buf bytes.Buffer

	logger, _ := NewWithWriter(&Config{}, &buf)
	logger.Info("request", slog.String("authorization", "Bearer abc.def"), slog.String("category", "Motivation"))

	out := buf.String()
	assert.NotContains(t, out, "abc.def")
	assert.Contains(t, out, "Motivation")
}

func TestNewWithWriter_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	var buf bytes.Buffer

	logger, closer := NewWithWriter(&Config{
		Format: "text",
		File:   FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}, &buf)

	logger.Info("persisted quotes", slog.Int("count", 4))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entry := decodeLine(t, data)
	assert.Equal(t, "persisted quotes", entry["msg"])
	assert.Contains(t, buf.String(), "persisted quotes")
}

func TestSlogToCharmLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, slogToCharmLevel(slog.Level(-12)))
	assert.Equal(t, charmlog.DebugLevel, slogToCharmLevel(slog.LevelDebug))
	assert.Equal(t, charmlog.InfoLevel, slogToCharmLevel(slog.LevelInfo))
	assert.Equal(t, charmlog.WarnLevel, slogToCharmLevel(slog.LevelWarn))
	assert.Equal(t, charmlog.ErrorLevel, slogToCharmLevel(slog.Level(12)))
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer

	h := NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With(slog.String("component", "sync")).WithGroup("cycle")

	logger.Info("synced")
	logger.Error("failed")

	assert.Contains(t, a.String(), "synced")
	assert.Contains(t, a.String(), "failed")
	assert.NotContains(t, b.String(), "synced")
	assert.Contains(t, b.String(), `"component":"sync"`)
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestMultiHandler_FailingSinkDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer

	h := NewMultiHandler(
		failingHandler{slog.NewJSONHandler(io.Discard, nil)},
		slog.NewJSONHandler(&buf, nil),
	)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "quote added", 0))

	require.EqualError(t, err, "disk full")
	assert.Contains(t, buf.String(), "quote added")
}
