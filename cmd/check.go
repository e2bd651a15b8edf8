package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/catalog"
	"github.com/ziadkadry99/blogdeck/internal/content"
)

var errCheckFailed = errors.New("content check found problems")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the index and the markdown files agree",
	Long: `Reports markdown files that no index entry points to, index entries
without a markdown file, ids listed twice and counters that do not match
the listed posts. Exits non-zero when anything is found.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSlice("exclude", nil, "extra glob patterns of markdown files to ignore, relative to the posts dir")
	checkCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Site.BaseURL != "" {
		return fmt.Errorf("check needs the site on disk; unset site.base_url")
	}

	doc, err := catalog.Load(filepath.Join(cfg.Site.Dir, filepath.FromSlash(cfg.Site.IndexPath)))
	if err != nil {
		return err
	}

	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	report, err := content.Scan(os.DirFS(cfg.Site.Dir), doc, content.Options{
		PostsDir: cfg.Site.PostsPath,
		Exclude:  exclude,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if !report.Ok() {
		return errCheckFailed
	}
	return nil
}

func printReport(w io.Writer, r content.Report) {
	if r.Ok() {
		fmt.Fprintf(w, "OK: %d posts, every post has a document\n", r.Posts)
		return
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d):\n", title, len(items))
		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item)
		}
		fmt.Fprintln(w)
	}
	section("Documents not in the index", r.Orphans)
	section("Posts without a document", r.Missing)
	section("Ids listed more than once", r.Duplicates)
	section("Counters out of date", r.Counts)
}
