package gallery

import (
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
)

// Preview is the element shown inside a grid cell
type Preview struct {
	Tag      string `json:"tag"`
	Src      string `json:"src"`
	Poster   string `json:"poster,omitempty"`
	Muted    bool   `json:"muted"`
	Loop     bool   `json:"loop"`
	Autoplay bool   `json:"autoplay"`
	Controls bool   `json:"controls"`
}

// Thumbnail is one grid cell. Activating it opens the lightbox at Index.
type Thumbnail struct {
	Index   int     `json:"index"`
	Alt     string  `json:"alt"`
	Caption string  `json:"caption"`
	Preview Preview `json:"preview"`
}

// BuildGrid creates one thumbnail per item, in item order
func BuildGrid(items []models.MediaItem) []Thumbnail {
	thumbs := make([]Thumbnail, 0, len(items))
	for i, item := range items {
		thumbs = append(thumbs, Thumbnail{
			Index:   i,
			Alt:     item.File,
			Caption: manifest.Caption(item),
			Preview: previewFor(item),
		})
	}
	return thumbs
}

func previewFor(item models.MediaItem) Preview {
	if item.Kind == models.KindImage {
		return Preview{Tag: "img", Src: item.Src}
	}
	// silent, looping, never autoplayed
	return Preview{
		Tag:    "video",
		Src:    item.Src,
		Poster: manifest.PosterPath(item.Src),
		Muted:  true,
		Loop:   true,
	}
}
