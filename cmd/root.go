package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jamo/media-gallery/internal/config"
	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rootDir    string
	baseURL    string
	logLevel   string
	logFormat  string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "media-gallery",
	Short: "Browse photo and video galleries described by JSON manifests",
	Long: `Media Gallery loads one or more JSON manifests, sorts their photos and
videos newest first, and renders them as thumbnail grids with a lightbox
viewer. Galleries can be served over HTTP, exported as static HTML, or
inspected from the command line.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Load .env file if it exists
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("GALLERY_CONFIG"), "YAML file listing galleries (can be set via GALLERY_CONFIG env var)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", envOr("GALLERY_ROOT", "."), "Directory manifests and media are read from (can be set via GALLERY_ROOT env var)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", os.Getenv("GALLERY_BASE_URL"), "Fetch relative manifests from this URL instead of --root (can be set via GALLERY_BASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format: text or json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (use text or json)", format)
}

// assetBase is where rendered pages link relative media paths: the remote
// host in --base-url mode, otherwise relative to the page.
func assetBase() string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/"
}

// loadPage builds controllers for the selected galleries and waits for
// their manifests. Load failures are logged per gallery, not returned.
func loadPage(ctx context.Context, names []string) (*gallery.Page, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	galleries, err := cfg.Select(names)
	if err != nil {
		return nil, err
	}

	page := gallery.NewPage(galleries, manifest.NewLoader(rootDir, baseURL), logger)
	page.Start(ctx)
	if err := page.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed waiting for galleries: %w", err)
	}

	return page, nil
}
