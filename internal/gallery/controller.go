package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jamo/media-gallery/internal/lightbox"
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
)

// Fetcher retrieves manifest records. *manifest.Loader implements it.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]models.MediaRecord, error)
}

// Controller owns one gallery: its items, grid and lightbox.
//
// Items are loaded once; a failed load is logged and leaves the gallery
// empty. All lightbox operations are safe to call before, during and after
// the load and never panic on an empty gallery.
//
// Open, Next, Prev, Close, HandleKey and HandleClick drive the controller's
// own lightbox. That is the in-process API for a single viewer, used by
// Page.DispatchKey and the inspect command. Servers with many concurrent
// viewers keep state per request with NewLightbox instead.
type Controller struct {
	ID  uuid.UUID
	cfg models.GalleryConfig

	fetcher Fetcher
	logger  *slog.Logger

	mu       sync.RWMutex
	items    []models.MediaItem
	grid     []Thumbnail
	lightbox *lightbox.Lightbox
	loadErr  error

	once sync.Once
	done chan struct{}
}

func NewController(cfg models.GalleryConfig, fetcher Fetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	if cfg.Folder == "" {
		cfg.Folder = manifest.DeriveFolder(cfg.Manifest)
	}
	if cfg.GalleryID == "" {
		cfg.GalleryID = "gallery-" + id.String()
	}
	if cfg.LightboxID == "" {
		cfg.LightboxID = "lightbox-" + id.String()
	}
	return &Controller{
		ID:       id,
		cfg:      cfg,
		fetcher:  fetcher,
		logger:   logger.With("gallery", cfg.Name, "controller", id.String()),
		lightbox: lightbox.New(nil),
		done:     make(chan struct{}),
	}
}

func (c *Controller) Config() models.GalleryConfig {
	return c.cfg
}

// Start loads the manifest in the background and returns immediately
func (c *Controller) Start(ctx context.Context) {
	go c.Load(ctx)
}

// Load fetches, normalizes and sorts the manifest. Only the first call has
// any effect; later calls wait for it to finish.
func (c *Controller) Load(ctx context.Context) {
	c.once.Do(func() {
		defer close(c.done)
		c.load(ctx)
	})
	<-c.done
}

func (c *Controller) load(ctx context.Context) {
	records, err := c.fetcher.Fetch(ctx, c.cfg.Manifest)
	if err != nil {
		c.logger.Error("error loading manifest", "manifest", c.cfg.Manifest, "err", err)
		c.mu.Lock()
		c.loadErr = err
		c.mu.Unlock()
		return
	}

	items := manifest.Normalize(records, c.cfg.Folder)
	manifest.Sort(items)
	grid := BuildGrid(items)

	c.mu.Lock()
	c.items = items
	c.grid = grid
	c.lightbox = lightbox.New(items)
	c.mu.Unlock()

	c.logger.Info("gallery loaded", "items", len(items))
}

// Done is closed once the load has finished, successfully or not
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err returns the load failure, if any
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Items returns the sorted items. The slice must not be modified.
func (c *Controller) Items() []models.MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

func (c *Controller) Grid() []Thumbnail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grid
}

// NewLightbox returns an independent lightbox over the loaded items in
// state s. Used where many viewers share one controller.
func (c *Controller) NewLightbox(s lightbox.State) *lightbox.Lightbox {
	return lightbox.Restore(c.Items(), s)
}

func (c *Controller) Open(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.Open(i)
}

func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.Next()
}

func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.Prev()
}

func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.Close()
}

func (c *Controller) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lightbox.IsOpen()
}

// HandleKey acts only when this controller's own lightbox is open
func (c *Controller) HandleKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.HandleKey(key)
}

func (c *Controller) HandleClick(t lightbox.Target) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox.HandleClick(t)
}

func (c *Controller) State() lightbox.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lightbox.State()
}

func (c *Controller) View() lightbox.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lightbox.View()
}
