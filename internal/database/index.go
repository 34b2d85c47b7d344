package database

import (
	"fmt"

	"github.com/jamo/media-gallery/internal/gallery"
)

// Index stores every loaded controller's items. Controllers must have
// finished loading.
func (db *DB) Index(controllers []*gallery.Controller) error {
	for _, c := range controllers {
		cfg := c.Config()
		if err := db.StoreGallery(cfg, c.Items(), c.Err()); err != nil {
			return fmt.Errorf("index gallery %s: %w", cfg.Name, err)
		}
	}
	return nil
}
