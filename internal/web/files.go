package web

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/jamo/media-gallery/internal/models"
)

// mediaFS exposes only the gallery folders and manifest files under root.
// Hidden path segments and directories are reported as missing.
type mediaFS struct {
	root      http.FileSystem
	folders   []string
	manifests map[string]bool
}

func newMediaFS(root string, cfgs []models.GalleryConfig) *mediaFS {
	m := &mediaFS{
		root:      http.Dir(root),
		manifests: make(map[string]bool),
	}
	for _, cfg := range cfgs {
		if folder, ok := localPath(cfg.Folder); ok {
			m.folders = append(m.folders, folder)
		}
		if manifest, ok := localPath(cfg.Manifest); ok {
			m.manifests[manifest] = true
		}
	}
	return m
}

// localPath cleans p into a rooted path. URLs and the root itself are rejected.
func localPath(p string) (string, bool) {
	if p == "" || strings.Contains(p, "://") {
		return "", false
	}
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", false
	}
	return clean, true
}

func (m *mediaFS) allowed(name string) bool {
	name = path.Clean("/" + name)
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	if m.manifests[name] {
		return true
	}
	for _, folder := range m.folders {
		if strings.HasPrefix(name, folder+"/") {
			return true
		}
	}
	return false
}

func (m *mediaFS) Open(name string) (http.File, error) {
	if !m.allowed(name) {
		return nil, fs.ErrNotExist
	}
	f, err := m.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
