package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/lightbox"
)

// StaticLink names the static page that shows gallery name in state s.
// Every page sits directly in the site directory.
func StaticLink(name string, s lightbox.State) string {
	if !s.Open {
		return "index.html"
	}
	return fmt.Sprintf("%s-%d.html", pageName(name), s.Index)
}

// pageName flattens a gallery name into a single file name segment
func pageName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}

// WriteSite exports every reachable lightbox state as a static HTML page:
// index.html with all galleries closed plus one page per open item.
// Media paths stay relative, so dir is expected to sit next to the media
// folders unless assetBase points elsewhere. Returns the number of pages
// written.
func (r *Renderer) WriteSite(dir, title, assetBase string, controllers []*gallery.Controller) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	build := func(openName string, st lightbox.State) PageData {
		data := PageData{Title: title, AssetBase: assetBase}
		for _, c := range controllers {
			s := lightbox.State{}
			if c.Config().Name == openName {
				s = st
			}
			data.Galleries = append(data.Galleries, BuildGallery(c, c.NewLightbox(s), StaticLink))
		}
		return data
	}

	written := 0
	if err := r.writeFile(filepath.Join(dir, StaticLink("", lightbox.State{})), build("", lightbox.State{})); err != nil {
		return written, err
	}
	written++

	for _, c := range controllers {
		name := c.Config().Name
		for i := range c.Items() {
			st := lightbox.State{Open: true, Index: i}
			if err := r.writeFile(filepath.Join(dir, StaticLink(name, st)), build(name, st)); err != nil {
				return written, err
			}
			written++
		}
	}

	return written, nil
}

func (r *Renderer) writeFile(path string, data PageData) error {
	var buf bytes.Buffer
	if err := r.Page(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
