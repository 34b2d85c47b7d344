package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jamo/media-gallery/internal/config"
	"github.com/jamo/media-gallery/internal/database"
	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/render"
	"github.com/jamo/media-gallery/internal/web"
	"github.com/spf13/cobra"
)

var (
	port      int
	pageTitle string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the galleries over HTTP",
	Long: `Starts a web server that renders every configured gallery with its
lightbox viewer. Gallery folders and manifests under --root are served as
files; with --base-url, media links point at the remote host instead.

Lightbox state lives in the URL, so every view can be bookmarked:
  - /                      - all galleries
  - /galleries/NAME?open=3 - one gallery with item 3 open
  - /api/galleries         - gallery list and load status
  - /api/stats             - catalog summary`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaultPort, _ := strconv.Atoi(envOr("PORT", "8080"))
	serveCmd.Flags().IntVar(&port, "port", defaultPort, "Port to run web server on (can be set via PORT env var)")
	serveCmd.Flags().StringVar(&pageTitle, "title", "Galleries", "Title of the index page")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open()
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// Galleries load in the background; pages render whatever has arrived
	page := gallery.NewPage(cfg.Galleries, manifest.NewLoader(rootDir, baseURL), logger)
	page.Start(ctx)
	go func() {
		if err := page.Wait(ctx); err != nil {
			return
		}
		if err := db.Index(page.Controllers()); err != nil {
			logger.Error("failed to index galleries", "err", err)
		}
	}()

	opts := web.Options{Root: rootDir, Title: pageTitle}
	if baseURL != "" {
		// media lives next to the manifests on the remote host
		opts.Root = ""
		opts.AssetBase = assetBase()
	}
	server := web.NewServer(page, db, renderer, opts, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "galleries", len(cfg.Galleries))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "err", err)
		_ = srv.Close()
	}
	logger.Info("server stopped")

	return nil
}
