package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamo/media-gallery/internal/models"
	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export [gallery...]",
	Short: "Export normalized gallery items to a JSON file",
	Long:  `Writes every gallery's items, sorted for display and with media kind and source path resolved, to a single JSON file.`,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFile, "out", "galleries.json", "Output file")
}

type exportedGallery struct {
	Name     string             `json:"name"`
	Title    string             `json:"title"`
	Manifest string             `json:"manifest"`
	Folder   string             `json:"folder"`
	Error    string             `json:"error,omitempty"`
	Items    []models.MediaItem `json:"items"`
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	page, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	var galleries []exportedGallery
	for _, c := range page.Controllers() {
		cfg := c.Config()
		g := exportedGallery{
			Name:     cfg.Name,
			Title:    cfg.Title,
			Manifest: cfg.Manifest,
			Folder:   cfg.Folder,
			Items:    c.Items(),
		}
		if g.Items == nil {
			g.Items = []models.MediaItem{}
		}
		if err := c.Err(); err != nil {
			g.Error = err.Error()
		}
		galleries = append(galleries, g)
	}

	if dir := filepath.Dir(exportFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(exportFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportFile, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(galleries); err != nil {
		return fmt.Errorf("failed to encode galleries: %w", err)
	}

	fmt.Fprintf(out, "✓ Exported %d galleries to %s\n", len(galleries), exportFile)
	return nil
}
