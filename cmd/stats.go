package cmd

import (
	"fmt"

	"github.com/jamo/media-gallery/internal/database"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [gallery...]",
	Short: "Summarize gallery contents",
	Long:  `Shows per gallery how many images, videos and undated items it holds, its date range, and how many items were taken each year.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	page, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	db, err := database.Open()
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	if err := db.Index(page.Controllers()); err != nil {
		return err
	}

	summaries, err := db.Summaries()
	if err != nil {
		return fmt.Errorf("failed to summarize galleries: %w", err)
	}

	loadErrors, err := db.LoadErrors()
	if err != nil {
		return fmt.Errorf("failed to get load errors: %w", err)
	}

	fmt.Fprintln(out, "=== Gallery Statistics ===")
	for _, s := range summaries {
		fmt.Fprintf(out, "\n%s\n", s.Gallery)
		if msg, ok := loadErrors[s.Gallery]; ok {
			fmt.Fprintf(out, "  Not loaded: %s\n", msg)
			continue
		}
		fmt.Fprintf(out, "  Items:   %d (%d images, %d videos)\n", s.Total, s.Images, s.Videos)
		fmt.Fprintf(out, "  Undated: %d\n", s.Undated)
		if s.Newest != "" {
			fmt.Fprintf(out, "  Range:   %s → %s\n", s.Oldest, s.Newest)
		}

		years, err := db.YearCounts(s.Gallery)
		if err != nil {
			return fmt.Errorf("failed to count years for %s: %w", s.Gallery, err)
		}
		for _, y := range years {
			fmt.Fprintf(out, "    %d: %d\n", y.Year, y.Count)
		}
	}

	return nil
}
