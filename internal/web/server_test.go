package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamo/media-gallery/internal/database"
	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/lightbox"
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
	"github.com/jamo/media-gallery/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xManifest = `[
  {"file": "b.mp4"},
  {"file": "a.png", "dateTaken": {"year": 2022, "month": 6, "day": 1, "hour": 9, "minute": 0, "second": 0}}
]`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T) (*Server, *gallery.Page) {
	t.Helper()
	return newTestServerWith(t, Options{Title: "Test Galleries"})
}

// newTestServerWith fills opts.Root with a temp dir unless opts.AssetBase
// points at a remote host
func newTestServerWith(t *testing.T, opts Options) (*Server, *gallery.Page) {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "x.json"), xManifest)
	write(t, filepath.Join(root, "X", "a.png"), "\x89PNG\r\n\x1a\n")
	write(t, filepath.Join(root, "X", ".hidden"), "hidden")
	write(t, filepath.Join(root, ".env"), "SECRET=hunter2\n")
	write(t, filepath.Join(root, "galleries.yaml"), "galleries: []\n")
	if opts.AssetBase == "" {
		opts.Root = root
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	page := gallery.NewPage([]models.GalleryConfig{
		{Name: "x", Title: "Example", GalleryID: "x-gallery", LightboxID: "x-lightbox", Manifest: "x.json", Folder: "X"},
		{Name: "broken", Title: "Broken", GalleryID: "broken-gallery", LightboxID: "broken-lightbox", Manifest: "nope.json", Folder: "nope"},
	}, manifest.NewLoader(root, ""), logger)
	page.Start(context.Background())
	require.NoError(t, page.Wait(context.Background()))

	db, err := database.Open()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Index(page.Controllers()))

	renderer, err := render.New()
	require.NoError(t, err)

	return NewServer(page, db, renderer, opts, logger), page
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	return rr
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/health")

	require.Equal(t, 200, rr.Code)
	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestIndex_AllGalleriesClosed(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/")

	require.Equal(t, 200, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	html := rr.Body.String()
	assert.Contains(t, html, "<title>Test Galleries</title>")
	assert.Contains(t, html, `id="x-gallery"`)
	assert.Contains(t, html, `id="broken-gallery"`)
	assert.Contains(t, html, "could not be loaded")
	assert.NotContains(t, html, `data-open="true"`)
	assert.Contains(t, html, `href="/?open.x=1"`)
}

func TestIndex_OneGalleryOpen(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/?open.x=0")

	require.Equal(t, 200, rr.Code)
	html := rr.Body.String()
	assert.Equal(t, 1, strings.Count(html, `data-open="true"`))
	assert.Contains(t, html, `class="lightbox-img" src="/X/a.png"`)
	assert.Contains(t, html, `<span class="lightbox-caption">a.png [2022:06:01 09:00:00]</span>`)
}

func TestGalleryPage(t *testing.T) {
	s, _ := newTestServer(t)

	rr := get(t, s, "/galleries/x?open=1")
	require.Equal(t, 200, rr.Code)
	html := rr.Body.String()
	assert.Contains(t, html, `class="lightbox-video" src="/X/b.mp4" controls`)
	assert.Contains(t, html, `data-next="/galleries/x?open=0"`)
	assert.Contains(t, html, `data-close="/galleries/x"`)

	// out of range indexes render closed
	rr = get(t, s, "/galleries/x?open=9")
	require.Equal(t, 200, rr.Code)
	assert.NotContains(t, rr.Body.String(), `data-open="true"`)

	rr = get(t, s, "/galleries/unknown")
	assert.Equal(t, 404, rr.Code)
}

func TestMediaFilesServed(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/X/a.png")

	require.Equal(t, 200, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

	assert.Equal(t, 200, get(t, s, "/x.json").Code)
}

func TestOnlyGalleryFilesServed(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{
		"/.env",
		"/galleries.yaml",
		"/X/",
		"/X/.hidden",
		"/nope/a.png",
	} {
		rr := get(t, s, target)
		assert.Equal(t, 404, rr.Code, target)
		assert.NotContains(t, rr.Body.String(), "hunter2", target)
	}
}

func TestRemoteAssetBase(t *testing.T) {
	s, _ := newTestServerWith(t, Options{Title: "Remote", AssetBase: "https://cdn.example/media/"})

	rr := get(t, s, "/galleries/x?open=0")
	require.Equal(t, 200, rr.Code)
	html := rr.Body.String()
	assert.Contains(t, html, `<img src="https://cdn.example/media/X/a.png" alt="a.png">`)
	assert.Contains(t, html, `poster="https://cdn.example/media/X/b.jpg"`)
	assert.Contains(t, html, `class="lightbox-img" src="https://cdn.example/media/X/a.png"`)

	// nothing is served locally
	assert.Equal(t, 404, get(t, s, "/X/a.png").Code)
}

func TestAPIGalleries(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/api/galleries")
	require.Equal(t, 200, rr.Code)

	var body []struct {
		Name   string `json:"name"`
		Items  int    `json:"items"`
		Loaded bool   `json:"loaded"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "x", body[0].Name)
	assert.Equal(t, 2, body[0].Items)
	assert.True(t, body[0].Loaded)
	assert.Empty(t, body[0].Error)
	assert.Equal(t, 0, body[1].Items)
	assert.NotEmpty(t, body[1].Error)
}

func TestAPIItems(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/api/galleries/x/items")
	require.Equal(t, 200, rr.Code)

	var items []models.MediaItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "X/a.png", items[0].Src)
	assert.Equal(t, models.KindVideo, items[1].Kind)

	assert.Equal(t, 404, get(t, s, "/api/galleries/unknown/items").Code)
}

func postEvent(t *testing.T, h http.Handler, gallery, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/galleries/"+gallery+"/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func TestAPIEvents(t *testing.T) {
	s, page := newTestServer(t)

	cases := []struct {
		name  string
		body  string
		acted bool
		state lightbox.State
	}{
		{"thumbnail opens", `{"target": "thumbnail", "index": 1}`, true, lightbox.State{Open: true, Index: 1}},
		{"arrow right wraps", `{"open": 1, "key": "ArrowRight"}`, true, lightbox.State{Open: true, Index: 0}},
		{"arrow left wraps", `{"open": 0, "key": "ArrowLeft"}`, true, lightbox.State{Open: true, Index: 1}},
		{"escape closes", `{"open": 0, "key": "Escape"}`, true, lightbox.State{}},
		{"overlay closes", `{"open": 1, "target": "overlay"}`, true, lightbox.State{}},
		{"content click ignored", `{"open": 1, "target": "content"}`, false, lightbox.State{Open: true, Index: 1}},
		{"keys ignored while closed", `{"key": "ArrowRight"}`, false, lightbox.State{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postEvent(t, s, "x", tc.body)
			require.Equal(t, 200, rr.Code, rr.Body.String())

			var resp eventResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.acted, resp.Acted)
			assert.Equal(t, tc.state, resp.State)
			assert.Equal(t, tc.state.Open, resp.View.Open)
		})
	}

	// requests never touch the shared controller state
	c, _ := page.Controller("x")
	assert.False(t, c.IsOpen())
}

func TestAPIEvents_EmptyGallery(t *testing.T) {
	s, _ := newTestServer(t)
	rr := postEvent(t, s, "broken", `{"target": "thumbnail", "index": 0}`)
	require.Equal(t, 200, rr.Code)

	var resp eventResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Acted)
	assert.False(t, resp.State.Open)
}

func TestAPIEvents_BadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, 400, postEvent(t, s, "x", `not json`).Code)
	assert.Equal(t, 400, postEvent(t, s, "x", `{}`).Code)
	assert.Equal(t, 400, postEvent(t, s, "x", `{"target": "caption"}`).Code)
	assert.Equal(t, 404, postEvent(t, s, "unknown", `{"key": "Escape"}`).Code)
}

func TestAPIStats(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s, "/api/stats")
	require.Equal(t, 200, rr.Code)

	var summaries []models.GallerySummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "x", summaries[0].Gallery)
	assert.Equal(t, 1, summaries[0].Images)
	assert.Equal(t, 1, summaries[0].Videos)
	assert.Equal(t, 1, summaries[0].Undated)
}
