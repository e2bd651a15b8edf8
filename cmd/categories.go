package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/blog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the number of posts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c := newCoordinator(cmd.Context(), cfg)
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), c.Categories())
		}
		return blog.WriteCategories(cmd.OutOrStdout(), c.Categories(), c.Messages())
	},
}

func init() {
	categoriesCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(categoriesCmd)
}
