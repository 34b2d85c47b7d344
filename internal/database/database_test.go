package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func taken(y, mo, d int) *models.DateTaken {
	return &models.DateTaken{Year: y, Month: mo, Day: d}
}

func TestStoreGalleryAndSummaries(t *testing.T) {
	db := openTestDB(t)

	repairs := []models.MediaItem{
		{File: "a.jpg", Kind: models.KindImage, Src: "r/a.jpg", DateTaken: taken(2022, 6, 1)},
		{File: "b.mp4", Kind: models.KindVideo, Src: "r/b.mp4", DateTaken: taken(2021, 2, 3)},
		{File: "c.png", Kind: models.KindImage, Src: "r/c.png", DateTaken: taken(2021, 12, 24)},
		{File: "d.mp4", Kind: models.KindVideo, Src: "r/d.mp4"},
	}
	require.NoError(t, db.StoreGallery(models.GalleryConfig{Name: "repairs", Title: "Repairs"}, repairs, nil))
	require.NoError(t, db.StoreGallery(models.GalleryConfig{Name: "broken"}, nil, errors.New("boom")))

	summaries, err := db.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, models.GallerySummary{
		Gallery: "repairs",
		Total:   4,
		Images:  2,
		Videos:  2,
		Undated: 1,
		Newest:  "2022-06-01 00:00:00",
		Oldest:  "2021-02-03 00:00:00",
	}, summaries[0])
	assert.Equal(t, models.GallerySummary{Gallery: "broken"}, summaries[1])

	years, err := db.YearCounts("repairs")
	require.NoError(t, err)
	assert.Equal(t, []models.YearCount{{Year: 2022, Count: 1}, {Year: 2021, Count: 2}}, years)

	loadErrors, err := db.LoadErrors()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"broken": "boom"}, loadErrors)
}

func TestStoreGallery_ReplacesItems(t *testing.T) {
	db := openTestDB(t)
	cfg := models.GalleryConfig{Name: "g"}

	require.NoError(t, db.StoreGallery(cfg, []models.MediaItem{
		{File: "a.jpg", Kind: models.KindImage, Src: "g/a.jpg"},
		{File: "b.jpg", Kind: models.KindImage, Src: "g/b.jpg"},
	}, nil))
	require.NoError(t, db.StoreGallery(cfg, []models.MediaItem{
		{File: "c.mp4", Kind: models.KindVideo, Src: "g/c.mp4"},
	}, nil))

	summaries, err := db.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Total)
	assert.Equal(t, 1, summaries[0].Videos)
}

type staticFetcher map[string][]models.MediaRecord

func (f staticFetcher) Fetch(ctx context.Context, location string) ([]models.MediaRecord, error) {
	records, ok := f[location]
	if !ok {
		return nil, errors.New("not found")
	}
	return records, nil
}

func TestIndex(t *testing.T) {
	db := openTestDB(t)

	page := gallery.NewPage([]models.GalleryConfig{
		{Name: "a", Manifest: "a.json"},
		{Name: "missing", Manifest: "missing.json"},
	}, staticFetcher{"a.json": {{File: "x.jpg", DateTaken: taken(2020, 3, 16)}, {File: "y.mov"}}}, nil)
	for _, c := range page.Controllers() {
		c.Load(context.Background())
	}

	require.NoError(t, db.Index(page.Controllers()))

	summaries, err := db.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Gallery)
	assert.Equal(t, 2, summaries[0].Total)
	assert.Equal(t, 1, summaries[0].Undated)

	loadErrors, err := db.LoadErrors()
	require.NoError(t, err)
	assert.Contains(t, loadErrors, "missing")
}
