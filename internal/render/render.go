package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/lightbox"
	"github.com/jamo/media-gallery/internal/models"
)

//go:embed templates/*
var templatesFS embed.FS

// Linker builds the href that shows gallery name in state s
type Linker func(name string, s lightbox.State) string

// ThumbnailView is a grid cell plus the link that opens it
type ThumbnailView struct {
	gallery.Thumbnail
	Href string
}

// GalleryView is everything needed to draw one gallery and its lightbox
type GalleryView struct {
	Config     models.GalleryConfig
	Thumbnails []ThumbnailView
	Lightbox   lightbox.View
	PrevHref   string
	NextHref   string
	CloseHref  string
	Failed     bool
	AssetBase  string
}

type PageData struct {
	Title     string
	AssetBase string
	Galleries []GalleryView
}

type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"asset": assetURL,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tpl}, nil
}

// Page writes a complete HTML document
func (r *Renderer) Page(w io.Writer, data PageData) error {
	for i := range data.Galleries {
		data.Galleries[i].AssetBase = data.AssetBase
	}
	return r.templates.ExecuteTemplate(w, "page.html", data)
}

// BuildGallery projects a controller and a lightbox into a GalleryView
func BuildGallery(c *gallery.Controller, lb *lightbox.Lightbox, link Linker) GalleryView {
	cfg := c.Config()
	grid := c.Grid()

	v := GalleryView{
		Config:     cfg,
		Thumbnails: make([]ThumbnailView, 0, len(grid)),
		Lightbox:   lb.View(),
		CloseHref:  link(cfg.Name, lightbox.State{}),
		Failed:     c.Err() != nil,
	}
	for _, t := range grid {
		v.Thumbnails = append(v.Thumbnails, ThumbnailView{
			Thumbnail: t,
			Href:      link(cfg.Name, lightbox.State{Open: true, Index: t.Index}),
		})
	}
	if i, ok := lb.Peek(-1); ok {
		v.PrevHref = link(cfg.Name, lightbox.State{Open: true, Index: i})
	}
	if i, ok := lb.Peek(1); ok {
		v.NextHref = link(cfg.Name, lightbox.State{Open: true, Index: i})
	}
	return v
}

// assetURL prefixes a relative media path with the page's asset base.
// Absolute URLs are returned unchanged.
func assetURL(base, src string) string {
	if u, err := url.Parse(src); err == nil && u.IsAbs() {
		return src
	}
	if base == "" {
		return src
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(src, "/")
}
