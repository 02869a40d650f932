package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	handler := RequestLogging(logger.NewWithWriter("test", "info", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?limit=20&skip=0", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(CorrelationHeader))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "http request", out["msg"])
	assert.Equal(t, "/products", out["path"])
	assert.Equal(t, "limit=20&skip=0", out["query"])
	assert.Equal(t, float64(http.StatusTeapot), out["status"])
}

func TestRequestLogging_KeepsInboundCorrelationID(t *testing.T) {
	handler := RequestLogging(logger.Discard())(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "abc-123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(CorrelationHeader))
}

func TestRequestLogging_QuietPrefixesLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("test", "info", &buf), "/health")(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Empty(t, buf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "http request"))
}
