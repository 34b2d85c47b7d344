package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jamo/media-gallery/internal/gallery"
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	inspectOpen string
	inspectKeys string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [gallery...]",
	Short: "List gallery items in display order",
	Long: `Loads the manifests of the given galleries (all when none are named) and
prints every item in the order the grid shows them, with its media kind,
source path and caption.

With --open the lightbox of one gallery is opened and --keys are pressed
against the whole page, the way a browser would deliver them. Only open
lightboxes react. The resulting lightbox states are printed:

  media-gallery inspect --open repairs=0 --keys ArrowRight,ArrowRight`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectOpen, "open", "", "Open a lightbox, as NAME=INDEX")
	inspectCmd.Flags().StringVar(&inspectKeys, "keys", "", "Comma separated keys to press: ArrowLeft, ArrowRight, Escape")
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var (
		openName  string
		openIndex int
	)
	if inspectOpen != "" {
		name, index, ok := strings.Cut(inspectOpen, "=")
		i, err := strconv.Atoi(index)
		if !ok || err != nil {
			return fmt.Errorf("invalid --open %q (use NAME=INDEX)", inspectOpen)
		}
		openName, openIndex = name, i
	}

	page, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	for _, c := range page.Controllers() {
		cfg := c.Config()
		fmt.Fprintf(out, "%s (%s, folder %s)\n", cfg.Title, cfg.Manifest, cfg.Folder)

		if err := c.Err(); err != nil {
			fmt.Fprintf(out, "  could not be loaded: %v\n\n", err)
			continue
		}

		items := c.Items()
		if len(items) == 0 {
			fmt.Fprintln(out, "  (empty)")
		}
		for i, item := range items {
			fmt.Fprintf(out, "  %3d  %-5s  %-40s  %s\n", i, item.Kind, item.Src, manifest.Caption(item))
		}
		fmt.Fprintln(out)
	}

	if openName == "" {
		return nil
	}
	return driveLightbox(out, page, openName, openIndex)
}

// driveLightbox opens one gallery's lightbox, presses the --keys page-wide
// and prints every gallery's resulting lightbox state
func driveLightbox(out io.Writer, page *gallery.Page, name string, index int) error {
	c, ok := page.Controller(name)
	if !ok {
		return fmt.Errorf("unknown gallery %q", name)
	}
	if !c.Open(index) {
		fmt.Fprintf(out, "! %s: nothing to open at %d\n", name, index)
	}

	if inspectKeys != "" {
		for _, key := range strings.Split(inspectKeys, ",") {
			key = strings.TrimSpace(key)
			acted := page.DispatchKey(key)
			fmt.Fprintf(out, "key %s: %d lightbox(es) reacted\n", key, acted)
		}
	}

	fmt.Fprintln(out, "\nLightboxes:")
	for _, c := range page.Controllers() {
		v := c.View()
		if !v.Open {
			fmt.Fprintf(out, "  %s: closed\n", c.Config().Name)
			continue
		}
		fmt.Fprintf(out, "  %s: open at %d, %s %s, %s\n", c.Config().Name, v.Index, v.Media.Tag, v.Media.Src, v.Caption)
	}
	return nil
}
