package cmd

import (
	"fmt"

	"github.com/jamo/media-gallery/internal/render"
	"github.com/spf13/cobra"
)

var (
	outDir    string
	siteTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render [gallery...]",
	Short: "Export the galleries as static HTML pages",
	Long: `Renders index.html with every gallery closed, plus one page per item
with that item open in the lightbox. Navigation, close and keyboard handling
link between the pages, so no server is needed.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&outDir, "out", "site", "Output directory")
	renderCmd.Flags().StringVar(&siteTitle, "title", "Galleries", "Page title")
}

func runRender(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	page, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Rendering %d galleries to %s...\n", len(page.Controllers()), outDir)
	n, err := renderer.WriteSite(outDir, siteTitle, assetBase(), page.Controllers())
	if err != nil {
		return fmt.Errorf("failed to render site: %w", err)
	}

	for _, c := range page.Controllers() {
		if c.Err() != nil {
			fmt.Fprintf(out, "  ! %s: could not be loaded\n", c.Config().Name)
			continue
		}
		fmt.Fprintf(out, "  - %s: %d items\n", c.Config().Name, len(c.Items()))
	}
	fmt.Fprintf(out, "\n✓ Wrote %d pages\n", n)

	return nil
}
