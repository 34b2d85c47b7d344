package models

// Kind is the media type of a gallery item
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// DateTaken is the capture timestamp as written in a manifest.
// Month is 1-based.
type DateTaken struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// MediaRecord is one entry of a gallery manifest
type MediaRecord struct {
	File      string     `json:"file"`
	DateTaken *DateTaken `json:"dateTaken,omitempty"`
}

// MediaItem is a normalized manifest record ready for display.
// Kind and Src are derived from the record and the gallery folder at load time.
type MediaItem struct {
	File      string     `json:"file"`
	DateTaken *DateTaken `json:"dateTaken,omitempty"`
	Kind      Kind       `json:"kind"`
	Src       string     `json:"src"`
}

// GalleryConfig describes one gallery instance on a page
type GalleryConfig struct {
	Name       string `json:"name" yaml:"name"`
	Title      string `json:"title" yaml:"title"`
	GalleryID  string `json:"gallery_id" yaml:"gallery_id"`
	LightboxID string `json:"lightbox_id" yaml:"lightbox_id"`
	Manifest   string `json:"manifest" yaml:"manifest"`
	Folder     string `json:"folder" yaml:"folder"`
}

// GallerySummary aggregates catalog statistics for one gallery
type GallerySummary struct {
	Gallery string `json:"gallery"`
	Total   int    `json:"total"`
	Images  int    `json:"images"`
	Videos  int    `json:"videos"`
	Undated int    `json:"undated"`
	Newest  string `json:"newest,omitempty"`
	Oldest  string `json:"oldest,omitempty"`
}

// YearCount is the number of dated items taken in a given year
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}
