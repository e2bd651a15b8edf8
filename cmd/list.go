package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/blog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of the post listing",
	Long: `Prints one page of posts with their excerpts and the page buttons.
--search filters by title (case-insensitive); --category shows one category.
When both are given, the search wins.`,
	Example: `  blogdeck list
  blogdeck list --search go --page 2
  blogdeck list --category 일상 --format json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Int("page", 1, "page to show")
	listCmd.Flags().String("search", "", "only posts whose title contains this text")
	listCmd.Flags().String("category", "", "only posts of this category")
	listCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c := newCoordinator(ctx, cfg)

	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	switch {
	case search != "":
		c.Search(search)
	case category != "":
		c.FilterByCategory(category)
	}

	page, _ := cmd.Flags().GetInt("page")
	view := c.Display(ctx, page)

	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	return blog.WriteView(cmd.OutOrStdout(), view)
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text or json)", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
