package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoGalleries      = errors.New("no galleries configured")
	ErrDuplicateGallery = errors.New("duplicate gallery name")
	ErrMissingManifest  = errors.New("gallery has no manifest")
)

type Config struct {
	Galleries []models.GalleryConfig `yaml:"galleries"`
}

// Defaults are the galleries used when no config file is given
func Defaults() *Config {
	return &Config{Galleries: []models.GalleryConfig{
		{Name: "repairs", Title: "Repairs", GalleryID: "repairs-gallery", LightboxID: "repairs-lightbox", Manifest: "repairs.json"},
		{Name: "cardboard", Title: "Cardboard Packaging", GalleryID: "cardboard-gallery", LightboxID: "cardboard-lightbox", Manifest: "2020-03-16_Cardboard-Packaging.json"},
		{Name: "campus", Title: "Campus Pack", GalleryID: "campus-gallery", LightboxID: "campus-lightbox", Manifest: "2022-06-11_CampusPack.json"},
	}}
}

// Load reads a YAML gallery list from path. An empty path returns Defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Defaults()
		return cfg, cfg.normalize()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize fills in derived fields and validates gallery names
func (c *Config) normalize() error {
	if len(c.Galleries) == 0 {
		return ErrNoGalleries
	}
	seen := make(map[string]bool, len(c.Galleries))
	for i := range c.Galleries {
		g := &c.Galleries[i]
		if g.Manifest == "" {
			return fmt.Errorf("gallery %d: %w", i, ErrMissingManifest)
		}
		if g.Name == "" {
			g.Name = manifest.DeriveFolder(g.Manifest)
		}
		if seen[g.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateGallery, g.Name)
		}
		seen[g.Name] = true

		if g.Title == "" {
			g.Title = g.Name
		}
		if g.GalleryID == "" {
			g.GalleryID = g.Name + "-gallery"
		}
		if g.LightboxID == "" {
			g.LightboxID = g.Name + "-lightbox"
		}
		if g.Folder == "" {
			g.Folder = manifest.DeriveFolder(g.Manifest)
		}
	}
	return nil
}

// Select returns the named galleries in the given order, or all when names is empty
func (c *Config) Select(names []string) ([]models.GalleryConfig, error) {
	if len(names) == 0 {
		return c.Galleries, nil
	}
	byName := make(map[string]models.GalleryConfig, len(c.Galleries))
	for _, g := range c.Galleries {
		byName[g.Name] = g
	}
	out := make([]models.GalleryConfig, 0, len(names))
	for _, n := range names {
		g, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown gallery %q", n)
		}
		out = append(out, g)
	}
	return out, nil
}
