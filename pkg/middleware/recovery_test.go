package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/storefront/pkg/logger"
)

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"an internal error occurred","code":"INTERNAL_ERROR"}`, rec.Body.String())
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name   string
		maxAge int
		method string
		want   string
	}{
		{"get cacheable", 300, http.MethodGet, "public, max-age=300"},
		{"head cacheable", 60, http.MethodHead, "public, max-age=60"},
		{"zero disables", 0, http.MethodGet, "no-store"},
		{"options untouched", 300, http.MethodOptions, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			CacheControl(tt.maxAge)(okHandler()).ServeHTTP(rec, httptest.NewRequest(tt.method, "/categories", nil))
			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
		})
	}
}
