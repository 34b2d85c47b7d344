package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamo/media-gallery/internal/models"
)

// ErrLoad is matched by every error returned from Loader.Fetch
var ErrLoad = errors.New("manifest load failed")

// LoadError describes why a manifest could not be loaded
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load manifest %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// Loader retrieves manifest files from disk or over HTTP.
// Relative locations are resolved against BaseURL when set, otherwise BaseDir.
type Loader struct {
	BaseDir string
	BaseURL string
	client  *http.Client
}

func NewLoader(baseDir, baseURL string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch reads and decodes the manifest at location
func (l *Loader) Fetch(ctx context.Context, location string) ([]models.MediaRecord, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}

	records, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}
	return records, nil
}

// Decode parses a manifest body. Every record must name a file.
func Decode(data []byte) ([]models.MediaRecord, error) {
	var records []models.MediaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	for i, r := range records {
		if r.File == "" {
			return nil, fmt.Errorf("record %d: missing file", i)
		}
	}
	return records, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if isURL(location) {
		return l.get(ctx, location)
	}
	if l.BaseURL != "" {
		return l.get(ctx, l.BaseURL+"/"+strings.TrimPrefix(location, "/"))
	}

	path := location
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
