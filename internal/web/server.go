package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jamo/media-gallery/internal/database"
	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/lightbox"
	"github.com/jamo/media-gallery/internal/models"
	"github.com/jamo/media-gallery/internal/render"
)

type Server struct {
	page      *gallery.Page
	db        *database.DB
	renderer  *render.Renderer
	router    chi.Router
	logger    *slog.Logger
	title     string
	assetBase string
}

type Options struct {
	// Root is the local directory holding gallery folders and manifests.
	// Empty disables local file serving.
	Root string
	// AssetBase prefixes relative media paths in rendered pages. Defaults to "/".
	AssetBase string
	Title     string
}

// NewServer serves the galleries of page. Media under each configured
// gallery folder and the manifests themselves are served from opts.Root;
// nothing else in that directory is reachable.
func NewServer(page *gallery.Page, db *database.DB, renderer *render.Renderer, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AssetBase == "" {
		opts.AssetBase = "/"
	}
	s := &Server{
		page:      page,
		db:        db,
		renderer:  renderer,
		router:    chi.NewRouter(),
		logger:    logger,
		title:     opts.Title,
		assetBase: opts.AssetBase,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/galleries/{name}", s.handleGallery)

	// API endpoints
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/galleries", s.handleAPIGalleries)
		r.Get("/galleries/{name}/items", s.handleAPIItems)
		r.Post("/galleries/{name}/events", s.handleAPIEvent)
		r.Get("/stats", s.handleAPIStats)
	})

	if opts.Root != "" {
		cfgs := make([]models.GalleryConfig, 0, len(page.Controllers()))
		for _, c := range page.Controllers() {
			cfgs = append(cfgs, c.Config())
		}
		s.router.Handle("/*", http.FileServer(newMediaFS(opts.Root, cfgs)))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// indexParam is the query parameter holding a gallery's open index on the index page
func indexParam(name string) string {
	return "open." + name
}

func indexLink(name string, st lightbox.State) string {
	if !st.Open {
		return "/"
	}
	q := url.Values{}
	q.Set(indexParam(name), strconv.Itoa(st.Index))
	return "/?" + q.Encode()
}

func galleryLink(name string, st lightbox.State) string {
	base := "/galleries/" + url.PathEscape(name)
	if !st.Open {
		return base
	}
	return base + "?open=" + strconv.Itoa(st.Index)
}

// galleryParam returns the decoded {name} route parameter
func galleryParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// stateFromQuery reads an open index; anything unparsable means closed
func stateFromQuery(q url.Values, param string) lightbox.State {
	v := q.Get(param)
	if v == "" {
		return lightbox.State{}
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return lightbox.State{}
	}
	return lightbox.State{Open: true, Index: i}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := render.PageData{Title: s.title, AssetBase: s.assetBase}
	for _, c := range s.page.Controllers() {
		name := c.Config().Name
		lb := c.NewLightbox(stateFromQuery(q, indexParam(name)))
		data.Galleries = append(data.Galleries, render.BuildGallery(c, lb, indexLink))
	}
	s.writePage(w, data)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	c, ok := s.page.Controller(galleryParam(r))
	if !ok {
		http.Error(w, "Gallery not found", http.StatusNotFound)
		return
	}

	lb := c.NewLightbox(stateFromQuery(r.URL.Query(), "open"))
	data := render.PageData{
		Title:     c.Config().Title,
		AssetBase: s.assetBase,
		Galleries: []render.GalleryView{render.BuildGallery(c, lb, galleryLink)},
	}
	s.writePage(w, data)
}

func (s *Server) writePage(w http.ResponseWriter, data render.PageData) {
	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, data); err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// API Handlers

func (s *Server) handleAPIGalleries(w http.ResponseWriter, r *http.Request) {
	type galleryInfo struct {
		Name   string `json:"name"`
		Title  string `json:"title"`
		Items  int    `json:"items"`
		Loaded bool   `json:"loaded"`
		Error  string `json:"error,omitempty"`
	}

	response := make([]galleryInfo, 0, len(s.page.Controllers()))
	for _, c := range s.page.Controllers() {
		info := galleryInfo{
			Name:  c.Config().Name,
			Title: c.Config().Title,
			Items: len(c.Items()),
		}
		select {
		case <-c.Done():
			info.Loaded = true
		default:
		}
		if err := c.Err(); err != nil {
			info.Error = err.Error()
		}
		response = append(response, info)
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPIItems(w http.ResponseWriter, r *http.Request) {
	c, ok := s.page.Controller(galleryParam(r))
	if !ok {
		http.Error(w, "Gallery not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c.Items())
}

// eventRequest is one input event applied to a lightbox restored at Open
type eventRequest struct {
	Open   *int   `json:"open"`
	Key    string `json:"key"`
	Target string `json:"target"`
	Index  int    `json:"index"`
}

type eventResponse struct {
	Acted bool           `json:"acted"`
	State lightbox.State `json:"state"`
	View  lightbox.View  `json:"view"`
}

func (s *Server) handleAPIEvent(w http.ResponseWriter, r *http.Request) {
	c, ok := s.page.Controller(galleryParam(r))
	if !ok {
		http.Error(w, "Gallery not found", http.StatusNotFound)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var st lightbox.State
	if req.Open != nil {
		st = lightbox.State{Open: true, Index: *req.Open}
	}
	lb := c.NewLightbox(st)

	var acted bool
	switch {
	case req.Key != "":
		acted = lb.HandleKey(req.Key)
	case req.Target != "":
		target, err := lightbox.ParseTarget(req.Target, req.Index)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		acted = lb.HandleClick(target)
	default:
		http.Error(w, "key or target is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{
		Acted: acted,
		State: lb.State(),
		View:  lb.View(),
	})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.Summaries()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.GallerySummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
