package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// ListingSource exposes the current listing state. *service.PaginationController
// satisfies it.
type ListingSource interface {
	State() domain.PaginationState
	Phase() domain.ControllerPhase
}

// AdminOptions configures the admin endpoints.
type AdminOptions struct {
	// AllowedCIDRs restricts /metrics, /debug/listing and pprof.
	AllowedCIDRs []string
	PprofEnabled bool
}

// listingResponse summarizes the listing without the product bodies.
type listingResponse struct {
	Phase               string `json:"phase"`
	CurrentPage         int    `json:"current_page"`
	Products            int    `json:"products"`
	HasMore             bool   `json:"has_more"`
	IsLoading           bool   `json:"is_loading"`
	IsPaginationVisible bool   `json:"is_pagination_visible"`
}

// NewAdminRouter creates the router of the storefront's admin server:
// health probes, Prometheus metrics and an optional pprof mount.
func NewAdminRouter(healthHandler *health.Handler, listing ListingSource, opts AdminOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, "/health", "/metrics"))
	r.Use(middleware.PrometheusMetrics("admin"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.IPAllowlist(opts.AllowedCIDRs, logger))
		r.Handle("/metrics", promhttp.Handler())
		r.Get("/debug/listing", func(w http.ResponseWriter, r *http.Request) {
			s := listing.State()
			httputil.WriteJSON(w, http.StatusOK, listingResponse{
				Phase:               listing.Phase().String(),
				CurrentPage:         s.CurrentPage,
				Products:            len(s.Products),
				HasMore:             s.HasMore,
				IsLoading:           s.IsLoading,
				IsPaginationVisible: s.IsPaginationVisible,
			})
		})
	})

	if opts.PprofEnabled {
		middleware.RegisterPprof(r, opts.AllowedCIDRs, logger)
	}

	return r
}
