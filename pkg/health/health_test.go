package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(msg string) Checker {
	return func(context.Context) error { return fmt.Errorf("%s", msg) }
}

func serveReady(t *testing.T, h *Handler) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.ReadinessHandler().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", failing("down"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)

	h.LivenessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name        string
		critical    map[string]Checker
		nonCritical map[string]Checker
		wantCode    int
		wantStatus  Status
	}{
		{
			name:       "no checkers",
			wantCode:   http.StatusOK,
			wantStatus: StatusUp,
		},
		{
			name:        "all up",
			critical:    map[string]Checker{"catalog": ok},
			nonCritical: map[string]Checker{"categories": ok},
			wantCode:    http.StatusOK,
			wantStatus:  StatusUp,
		},
		{
			name:        "non-critical down is degraded",
			critical:    map[string]Checker{"catalog": ok},
			nonCritical: map[string]Checker{"categories": failing("not loaded")},
			wantCode:    http.StatusOK,
			wantStatus:  StatusDegraded,
		},
		{
			name:        "critical down",
			critical:    map[string]Checker{"catalog": failing("circuit open")},
			nonCritical: map[string]Checker{"categories": ok},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
		},
		{
			name:        "critical and non-critical down",
			critical:    map[string]Checker{"catalog": failing("circuit open")},
			nonCritical: map[string]Checker{"categories": failing("not loaded")},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			for name, c := range tt.critical {
				h.RegisterCritical(name, c)
			}
			for name, c := range tt.nonCritical {
				h.RegisterNonCritical(name, c)
			}

			rec, resp := serveReady(t, h)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.critical)+len(tt.nonCritical))
			for name := range tt.critical {
				assert.True(t, resp.Checks[name].Critical, name)
			}
			for name := range tt.nonCritical {
				assert.False(t, resp.Checks[name].Critical, name)
			}
		})
	}
}

func TestReadinessHandler_ReportsCheckError(t *testing.T) {
	h := NewHandler()
	h.RegisterNonCritical("categories", failing("categories not loaded"))

	_, resp := serveReady(t, h)

	assert.Equal(t, StatusDown, resp.Checks["categories"].Status)
	assert.Equal(t, "categories not loaded", resp.Checks["categories"].Error)
}

func TestRegister_IsCriticalByDefault(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", failing("refused"))

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, resp.Checks["catalog"].Critical)
}

func TestRegister_Overwrite(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", failing("fail"))
	h.RegisterNonCritical("catalog", ok)

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Checks["catalog"].Critical)
	assert.Equal(t, []string{"catalog"}, h.Names())
}

func TestCheck_PassesContext(t *testing.T) {
	h := NewHandler()
	type key struct{}
	var seen any
	h.Register("catalog", func(ctx context.Context) error {
		seen = ctx.Value(key{})
		return nil
	})

	resp := h.Check(context.WithValue(context.Background(), key{}, "v"))

	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, "v", seen)
}

func TestNames_Sorted(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", ok)
	h.RegisterNonCritical("categories", ok)
	h.RegisterNonCritical("breaker", ok)

	assert.Equal(t, []string{"breaker", "catalog", "categories"}, h.Names())
}
