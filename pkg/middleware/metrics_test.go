package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric returns the first metric of c whose labels include labels.
func collectMetric(c prometheus.Collector, labels map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		got := make(map[string]string, len(d.GetLabel()))
		for _, lp := range d.GetLabel() {
			got[lp.GetName()] = lp.GetValue()
		}
		match := true
		for k, v := range labels {
			if got[k] != v {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

func metricsRouter(server string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(server))
	r.Get("/products/{id}", h)
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	handler := metricsRouter("count-srv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	m := collectMetric(httpRequestsTotal, map[string]string{
		"server": "count-srv", "method": "GET", "path": "/products/{id}", "status": "200",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(3), m.GetCounter().GetValue())
}

func TestPrometheusMetrics_DurationAndStatus(t *testing.T) {
	handler := metricsRouter("hist-srv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/9", nil))

	m := collectMetric(httpRequestDuration, map[string]string{"server": "hist-srv", "status": "404"})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	var during float64
	handler := metricsRouter("inflight-srv", func(w http.ResponseWriter, r *http.Request) {
		if m := collectMetric(httpRequestsInFlight, map[string]string{"server": "inflight-srv"}); m != nil {
			during = m.GetGauge().GetValue()
		}
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	assert.Equal(t, float64(1), during)
	m := collectMetric(httpRequestsInFlight, map[string]string{"server": "inflight-srv"})
	require.NotNil(t, m)
	assert.Equal(t, float64(0), m.GetGauge().GetValue())
}

func TestPrometheusMetrics_DefaultStatusCode(t *testing.T) {
	handler := metricsRouter("default-srv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	assert.NotNil(t, collectMetric(httpRequestsTotal, map[string]string{"server": "default-srv", "status": "200"}))
}

type flusherWriter struct {
	http.ResponseWriter
	flushed bool
}

func (f *flusherWriter) Flush() { f.flushed = true }

type hijackerWriter struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackerWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

// bareWriter implements neither Flusher nor Hijacker.
type bareWriter struct{ header http.Header }

func (b *bareWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}
func (b *bareWriter) Write(p []byte) (int, error) { return len(p), nil }
func (b *bareWriter) WriteHeader(int)             {}

func TestMetricsResponseWriter_Delegation(t *testing.T) {
	f := &flusherWriter{ResponseWriter: httptest.NewRecorder()}
	(&metricsResponseWriter{ResponseWriter: f}).Flush()
	assert.True(t, f.flushed)

	h := &hijackerWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := (&metricsResponseWriter{ResponseWriter: h}).Hijack()
	assert.NoError(t, err)
	assert.True(t, h.hijacked)
}

func TestMetricsResponseWriter_Unsupported(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareWriter{}}

	assert.NotPanics(t, rw.Flush)
	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}
