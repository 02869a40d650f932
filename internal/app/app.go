package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/render"
	"github.com/utafrali/storefront/internal/scroll"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies of the storefront browser.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	out       io.Writer
	sessionID string

	breaker    *httpclient.CircuitBreakerClient
	catalog    *catalog.Client
	listing    *service.PaginationController
	categories *service.CategoryStore
	detail     *service.DetailView
	detector   *scroll.Detector

	listView     *render.ListRenderer
	detailView   *render.DetailRenderer
	categoryView render.CategoryRenderer
	notifier     *render.Notifier

	health         *health.Handler
	adminServer    *http.Server
	tracerShutdown func(context.Context) error
	shutdownOnce   sync.Once

	// outMu serializes writes to out.
	outMu sync.Mutex
}

// NewApp creates a new application instance, initializing all dependencies.
// Rendered views are written to out.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) (*App, error) {
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing("storefront"))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	sessionID := uuid.NewString()
	log = log.With(slog.String("session_id", sessionID))

	// Build the dependency graph.
	httpClient := httpclient.New(cfg.HTTPClient(), httpclient.WithLogger(log))
	breaker := httpclient.NewCircuitBreakerClient(httpClient, cfg.CircuitBreaker(), log)

	catalogClient, err := catalog.New(cfg.CatalogBaseURL, breaker,
		catalog.WithCategoriesPath(cfg.CatalogCategoriesPath),
		catalog.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	listing, err := service.NewPaginationController(catalogClient, service.ControllerConfig{
		PageSize:   cfg.PageSize,
		TotalPages: cfg.TotalPages,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create pagination controller: %w", err)
	}

	a := &App{
		cfg:        cfg,
		logger:     log,
		out:        out,
		sessionID:  sessionID,
		breaker:    breaker,
		catalog:    catalogClient,
		listing:    listing,
		categories: service.NewCategoryStore(catalogClient, log),
		detail:     service.NewDetailView(catalogClient, log),
		detector: scroll.NewDetector(scroll.Config{
			Threshold: cfg.ScrollThresholdLines,
			Debounce:  cfg.ScrollDebounce,
		}, log),
		listView:       render.NewListRenderer(cfg.ViewportWidth, cfg.TotalPages),
		detailView:     render.NewDetailRenderer(cfg.ViewportWidth),
		notifier:       render.NewNotifier(cfg.NotificationDuration),
		health:         health.NewHandler(),
		tracerShutdown: tracerShutdown,
	}

	// Health checks.
	a.health.RegisterCritical("catalog", breaker.Healthy)
	a.health.RegisterNonCritical("categories", a.categories.Ready)

	if cfg.AdminHTTPPort > 0 {
		a.adminServer = &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.AdminHTTPPort),
			Handler: handler.NewAdminRouter(a.health, listing, handler.AdminOptions{
				AllowedCIDRs: cfg.MetricsAllowedCIDRs,
				PprofEnabled: cfg.PprofEnabled,
			}, log),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	return a, nil
}

// Context returns ctx carrying the session id, so catalog requests are
// attributed to this browsing session.
func (a *App) Context(ctx context.Context) context.Context {
	return logger.WithSessionID(ctx, a.sessionID)
}

// StartAdmin starts the admin HTTP server in the background when one is
// configured. Errors other than a clean close are sent on the returned
// channel.
func (a *App) StartAdmin() <-chan error {
	errCh := make(chan error, 1)
	if a.adminServer == nil {
		return errCh
	}

	go func() {
		a.logger.Info("starting admin HTTP server", slog.String("addr", a.adminServer.Addr))
		if err := a.adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("admin http server: %w", err)
		}
	}()
	return errCh
}

// ShowProduct renders the detail view of one product.
func (a *App) ShowProduct(ctx context.Context, id string) error {
	s := a.detail.Load(a.Context(ctx), id)
	a.write(a.detailView.Render(s.Product, s.Loading, s.Err))
	return s.Err
}

// ShowCategories renders the category menu.
func (a *App) ShowCategories(ctx context.Context) error {
	err := a.categories.Init(a.Context(ctx))
	if err != nil {
		a.write(render.ErrorMessage(err) + "\n")
	}
	a.write(a.categoryView.Render(a.categories.Get()))
	return err
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		a.listing.Wait()
		a.notifier.Dismiss()

		if a.adminServer != nil {
			if err := a.adminServer.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("admin http server shutdown error", slog.String("error", err.Error()))
			}
		}
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}

		a.logger.Info("application shutdown complete")
	})
	return nil
}

func (a *App) write(s string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = io.WriteString(a.out, s)
}
