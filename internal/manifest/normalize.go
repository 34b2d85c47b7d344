package manifest

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jamo/media-gallery/internal/models"
)

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// KindOf classifies a file name by extension. Anything that is not a known
// image format is treated as video.
func KindOf(file string) models.Kind {
	ext := file
	if i := strings.LastIndex(file, "."); i >= 0 {
		ext = file[i+1:]
	}
	if imageExtensions[strings.ToLower(ext)] {
		return models.KindImage
	}
	return models.KindVideo
}

// SourcePath joins the gallery folder and a manifest file name
func SourcePath(folder, file string) string {
	return folder + "/" + file
}

// Normalize converts manifest records into media items in manifest order
func Normalize(records []models.MediaRecord, folder string) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(records))
	for _, r := range records {
		items = append(items, models.MediaItem{
			File:      r.File,
			DateTaken: r.DateTaken,
			Kind:      KindOf(r.File),
			Src:       SourcePath(folder, r.File),
		})
	}
	return items
}

// Timestamp converts a manifest date to a time. Out of range components
// are normalized the same way time.Date does.
func Timestamp(d *models.DateTaken) time.Time {
	if d == nil {
		return time.Unix(0, 0).UTC()
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
}

// Sort orders items newest first. Undated items go last; ties keep manifest order.
func Sort(items []models.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DateTaken, items[j].DateTaken
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return Timestamp(a).After(Timestamp(b))
	})
}

// FormatDate renders a date as YYYY:MM:DD HH:MM:SS, or "No Date" when absent
func FormatDate(d *models.DateTaken) string {
	if d == nil {
		return "No Date"
	}
	return fmt.Sprintf("%d:%02d:%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// Caption is the label shown under a thumbnail and in the lightbox
func Caption(item models.MediaItem) string {
	return fmt.Sprintf("%s [%s]", item.File, FormatDate(item.DateTaken))
}

// PosterPath returns the still image shown for a video before playback
func PosterPath(src string) string {
	return strings.TrimSuffix(src, path.Ext(src)) + ".jpg"
}

// DeriveFolder maps a manifest location to its media folder by dropping the
// first ".json", e.g. "repairs.json" -> "repairs".
func DeriveFolder(location string) string {
	return strings.Replace(location, ".json", "", 1)
}
