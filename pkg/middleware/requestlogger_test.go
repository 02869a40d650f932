package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func serveWithRequestLogger(base *slog.Logger, req *http.Request) {
	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequestLogger_IncludesCorrelationAndSession(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	req := httptest.NewRequest(http.MethodGet, "/products", nil).WithContext(ctx)
	req.Header.Set(SessionHeader, "sess-9")

	serveWithRequestLogger(logger.NewWithWriter("test", "info", &buf), req)

	out := logLine(t, &buf)
	assert.Equal(t, "handler log", out["msg"])
	assert.Equal(t, "corr-1", out["correlation_id"])
	assert.Equal(t, "sess-9", out["session_id"])
}

func TestRequestLogger_ContextSessionWinsOverHeader(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithSessionID(context.Background(), "from-ctx")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	req.Header.Set(SessionHeader, "from-header")

	serveWithRequestLogger(logger.NewWithWriter("test", "info", &buf), req)

	assert.Equal(t, "from-ctx", logLine(t, &buf)["session_id"])
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	var buf bytes.Buffer
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(trace.ContextWithSpanContext(context.Background(), sc))

	serveWithRequestLogger(logger.NewWithWriter("test", "info", &buf), req)

	out := logLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestRequestLogger_NoSession_OmitsField(t *testing.T) {
	var buf bytes.Buffer
	serveWithRequestLogger(logger.NewWithWriter("test", "info", &buf), httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := logLine(t, &buf)["session_id"]
	assert.False(t, ok)
}
