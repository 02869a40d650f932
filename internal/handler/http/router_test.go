package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/logger"
)

type fixedListing struct {
	state domain.PaginationState
}

func (f fixedListing) State() domain.PaginationState { return f.state }
func (f fixedListing) Phase() domain.ControllerPhase { return f.state.Phase() }

func newTestAdmin(t *testing.T, opts AdminOptions, catalogErr error) http.Handler {
	t.Helper()
	h := health.NewHandler()
	h.RegisterCritical("catalog", func(context.Context) error { return catalogErr })

	listing := fixedListing{state: domain.PaginationState{
		Products:            make([]domain.Product, 40),
		CurrentPage:         2,
		IsPaginationVisible: true,
	}}
	return NewAdminRouter(h, listing, opts, logger.Discard())
}

func serve(h http.Handler, target, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRouter_Health(t *testing.T) {
	up := newTestAdmin(t, AdminOptions{}, nil)
	assert.Equal(t, http.StatusOK, serve(up, "/health/live", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, serve(up, "/health/ready", "10.0.0.1:1").Code)

	down := newTestAdmin(t, AdminOptions{}, errors.New("circuit open"))
	assert.Equal(t, http.StatusOK, serve(down, "/health/live", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, "/health/ready", "10.0.0.1:1").Code)
}

func TestAdminRouter_MetricsAllowlist(t *testing.T) {
	h := newTestAdmin(t, AdminOptions{AllowedCIDRs: []string{"127.0.0.0/8"}}, nil)

	rec := serve(h, "/metrics", "127.0.0.1:4000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	assert.Equal(t, http.StatusForbidden, serve(h, "/metrics", "203.0.113.9:4000").Code)
}

func TestAdminRouter_Listing(t *testing.T) {
	h := newTestAdmin(t, AdminOptions{AllowedCIDRs: []string{"127.0.0.0/8"}}, nil)

	rec := serve(h, "/debug/listing", "127.0.0.1:4000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "exhausted", body.Phase)
	assert.Equal(t, 2, body.CurrentPage)
	assert.Equal(t, 40, body.Products)
	assert.True(t, body.IsPaginationVisible)
}

func TestAdminRouter_Pprof(t *testing.T) {
	off := newTestAdmin(t, AdminOptions{AllowedCIDRs: []string{"127.0.0.0/8"}}, nil)
	assert.Equal(t, http.StatusNotFound, serve(off, "/debug/pprof/cmdline", "127.0.0.1:1").Code)

	on := newTestAdmin(t, AdminOptions{AllowedCIDRs: []string{"127.0.0.0/8"}, PprofEnabled: true}, nil)
	assert.Equal(t, http.StatusOK, serve(on, "/debug/pprof/cmdline", "127.0.0.1:1").Code)
}
