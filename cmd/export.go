package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/progress"
	"github.com/ziadkadry99/blogdeck/internal/render"
	"github.com/ziadkadry99/blogdeck/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every post to a static HTML page",
	Long: `Renders each post document to <output>/posts/<id>.html and writes
<output>/excerpts.json listing every exported post with its excerpt.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output", "", "output directory (defaults to <site dir>/out)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = filepath.Join(cfg.Site.Dir, "out")
	}

	r, err := render.New()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store := newStore(ctx, cfg)
	exporter := site.NewExporter(store, r, messages(cfg), outputDir, progress.NewReporter("Exporting posts"))
	entries, err := exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Static pages written: %s (%d of %d posts)\n", outputDir, len(entries), len(store.Summaries()))
	return nil
}
