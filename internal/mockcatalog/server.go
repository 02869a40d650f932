package mockcatalog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/pagination"
)

// Options tune how the mock API answers.
type Options struct {
	// Latency delays every catalog response.
	Latency time.Duration
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// CacheMaxAge is the max-age, in seconds, advertised for category
	// responses. Zero or less disables caching.
	CacheMaxAge int
	// CategoriesAsStrings serves the category list as plain names instead of
	// objects, the way older catalog versions do.
	CategoriesAsStrings bool
}

// Handler serves the catalog endpoints.
type Handler struct {
	catalog *Catalog
	opts    Options
	logger  *slog.Logger
}

// NewHandler creates the catalog endpoint handler.
func NewHandler(cat *Catalog, opts Options, logger *slog.Logger) *Handler {
	return &Handler{catalog: cat, opts: opts, logger: logger}
}

// NewRouter creates a chi router with the catalog, health and middleware
// stack registered.
func NewRouter(cat *Catalog, opts Options, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	if len(opts.CORSOrigins) > 0 {
		cors.AllowedOrigins = opts.CORSOrigins
	}

	r.Use(middleware.CORS(cors))
	r.Use(middleware.Tracing("mockcatalog"))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, "/health"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("mockcatalog"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	h := NewHandler(cat, opts, logger)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/category/{slug}", h.ListCategoryProducts)
		r.Get("/{id}", h.GetProduct)
	})
	r.With(middleware.CacheControl(opts.CacheMaxAge)).Get("/categories", h.ListCategories)

	return r
}

// ListProducts handles GET /products?limit&skip.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !h.wait(r) {
		return
	}
	h.writePage(w, r, h.catalog.Products())
}

// ListCategoryProducts handles GET /products/category/{slug}.
func (h *Handler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	if !h.wait(r) {
		return
	}
	h.writePage(w, r, h.catalog.ByCategory(chi.URLParam(r, "slug")))
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, all []domain.Product) {
	p := pagination.FromRequest(r)
	httputil.WriteJSON(w, http.StatusOK, domain.ProductPage{
		Products: pagination.Window(all, p),
		Total:    len(all),
		Skip:     p.Skip,
		Limit:    p.Limit,
	})
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if !h.wait(r) {
		return
	}
	param := chi.URLParam(r, "id")
	id, ok := httputil.ParseID(w, param)
	if !ok {
		return
	}

	product, found := h.catalog.Product(id)
	if !found {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{
			Message: fmt.Sprintf("Product with id '%d' not found", id),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if !h.wait(r) {
		return
	}
	categories := h.catalog.Categories()
	if !h.opts.CategoriesAsStrings {
		httputil.WriteJSON(w, http.StatusOK, categories)
		return
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Slug)
	}
	httputil.WriteJSON(w, http.StatusOK, names)
}

// wait applies the configured latency. It reports false when the client went
// away first, in which case nothing is written.
func (h *Handler) wait(r *http.Request) bool {
	if h.opts.Latency <= 0 {
		return true
	}
	t := time.NewTimer(h.opts.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		h.logger.DebugContext(r.Context(), "client went away during simulated latency",
			slog.String("path", r.URL.Path),
		)
		return false
	}
}
