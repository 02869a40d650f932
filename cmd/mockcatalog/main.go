package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/mockcatalog"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.LoadMockCatalog()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New("mockcatalog", cfg.LogLevel)
	log.Info("starting mock catalog",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Int("products", cfg.Products),
		slog.Uint64("seed", cfg.Seed),
	)

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("mock catalog stopped")
}

func run(ctx context.Context, cfg *config.MockCatalog, log *slog.Logger) error {
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}

	catalog := mockcatalog.Generate(cfg.Products, cfg.Seed)
	router := mockcatalog.NewRouter(catalog, mockcatalog.Options{
		Latency:             cfg.Latency,
		CORSOrigins:         cfg.CORSOrigins,
		CacheMaxAge:         cfg.CacheMaxAge,
		CategoriesAsStrings: cfg.CategoriesAsStrings,
	}, health.NewHandler(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	if err := tracerShutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
	return nil
}
