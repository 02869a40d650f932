package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

const (
	testTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	testSpanID  = "00f067aa0ba902b7"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex(testTraceID)
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex(testSpanID)
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

// logLine logs one record through WithContext and decodes it.
func logLine(t *testing.T, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	WithContext(ctx, NewWithWriter("storefront", "info", &buf)).Info("page loaded")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestWithContext_Fields(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func(t *testing.T) context.Context
		want    map[string]string
		missing []string
	}{
		{
			name:    "empty context",
			ctx:     func(*testing.T) context.Context { return context.Background() },
			missing: []string{"session_id", "correlation_id", "trace_id", "span_id"},
		},
		{
			name: "session only",
			ctx: func(*testing.T) context.Context {
				return WithSessionID(context.Background(), "sess-789")
			},
			want:    map[string]string{"session_id": "sess-789"},
			missing: []string{"correlation_id", "trace_id"},
		},
		{
			name: "correlation only",
			ctx: func(*testing.T) context.Context {
				return WithCorrelationID(context.Background(), "req-123")
			},
			want:    map[string]string{"correlation_id": "req-123"},
			missing: []string{"session_id", "span_id"},
		},
		{
			name: "span only",
			ctx:  spanContext,
			want: map[string]string{"trace_id": testTraceID, "span_id": testSpanID},
		},
		{
			name: "everything",
			ctx: func(t *testing.T) context.Context {
				ctx := WithCorrelationID(spanContext(t), "req-all")
				return WithSessionID(ctx, "sess-all")
			},
			want: map[string]string{
				"session_id":     "sess-all",
				"correlation_id": "req-all",
				"trace_id":       testTraceID,
				"span_id":        testSpanID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := logLine(t, tt.ctx(t))
			assert.Equal(t, "storefront", out["service"])
			assert.Equal(t, "page loaded", out["msg"])
			for k, v := range tt.want {
				assert.Equal(t, v, out[k], k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, SessionIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))
}

func TestFromContext(t *testing.T) {
	l := Discard()
	assert.Same(t, l, FromContext(NewContext(context.Background(), l)))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "warn", &buf)

	l.Info("hidden")
	l.Warn("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"shown"`)
}

func TestNewWithWriter_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("storefront", "debug", &buf).Debug("traced")
	assert.Contains(t, buf.String(), `"source"`)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.Error("dropped")
}
