package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/blog"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the newest posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		n, _ := cmd.Flags().GetInt("count")
		c := newCoordinator(cmd.Context(), cfg)
		recent := c.Recent(cmd.Context(), n)

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), recent)
		}
		return blog.WriteRecent(cmd.OutOrStdout(), recent, c.Messages())
	},
}

func init() {
	recentCmd.Flags().IntP("count", "n", 0, "number of posts (default from config)")
	recentCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(recentCmd)
}
