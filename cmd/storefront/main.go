package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/app"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/pkg/logger"
)

func main() {
	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse a product catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "browse",
			Short: "Scroll through the catalog, loading pages as you reach the bottom",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(ctx context.Context, a *app.App) error {
					errCh := a.StartAdmin()
					done := make(chan error, 1)
					go func() { done <- a.Browse(ctx, cmd.InOrStdin()) }()

					select {
					case err := <-done:
						return err
					case err := <-errCh:
						return err
					}
				})
			},
		},
		&cobra.Command{
			Use:   "product ID",
			Short: "Show the details of one product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, a *app.App) error {
					return a.ShowProduct(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "categories",
			Short: "List the catalog categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(ctx context.Context, a *app.App) error {
					return a.ShowCategories(ctx)
				})
			},
		},
	)
	return root
}

// run loads configuration, builds the application and hands it to fn.
func run(cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return err
	}

	// Initialize structured logger.
	log := logger.New("storefront", cfg.LogLevel)
	log.Info("starting storefront",
		slog.String("command", cmd.Name()),
		slog.String("environment", cfg.Environment),
		slog.String("catalog", cfg.CatalogBaseURL),
		slog.Int("page_size", cfg.PageSize),
		slog.Int("total_pages", cfg.TotalPages),
	)

	// Create the application with all dependencies wired.
	application, err := app.NewApp(cmd.Context(), cfg, log, cmd.OutOrStdout())
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return err
	}
	defer func() { _ = application.Shutdown() }()

	if err := fn(cmd.Context(), application); err != nil {
		log.Error("command failed", slog.String("command", cmd.Name()), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	log.Info("storefront stopped")
	return nil
}
