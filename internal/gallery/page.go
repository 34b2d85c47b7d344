package gallery

import (
	"context"
	"log/slog"

	"github.com/jamo/media-gallery/internal/models"
)

// Page hosts several independent galleries side by side
type Page struct {
	controllers []*Controller
	byName      map[string]*Controller
}

func NewPage(cfgs []models.GalleryConfig, fetcher Fetcher, logger *slog.Logger) *Page {
	p := &Page{byName: make(map[string]*Controller, len(cfgs))}
	for _, cfg := range cfgs {
		c := NewController(cfg, fetcher, logger)
		p.controllers = append(p.controllers, c)
		p.byName[cfg.Name] = c
	}
	return p
}

// Start begins every gallery's load without waiting
func (p *Page) Start(ctx context.Context) {
	for _, c := range p.controllers {
		c.Start(ctx)
	}
}

// Wait blocks until every gallery has finished loading or ctx is done
func (p *Page) Wait(ctx context.Context) error {
	for _, c := range p.controllers {
		select {
		case <-c.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (p *Page) Controllers() []*Controller {
	return p.controllers
}

func (p *Page) Controller(name string) (*Controller, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// DispatchKey delivers a document-level key press to every gallery. Each one
// only reacts if its own lightbox is open. Returns the number that acted.
func (p *Page) DispatchKey(key string) int {
	acted := 0
	for _, c := range p.controllers {
		if c.HandleKey(key) {
			acted++
		}
	}
	return acted
}
