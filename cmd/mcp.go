package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/blogdeck/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to search, list and read blog posts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store := newStore(cmd.Context(), cfg)

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "blogdeck MCP server started on stdio (posts=%d)\n", len(store.Summaries()))

		srv := mcpserver.NewServer(store, blogOptions(cfg))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
