package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/config"
	"github.com/ziadkadry99/blogdeck/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
	logFile  string

	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "blogdeck",
	Short: "Browse, serve and author a markdown blog",
	Long: `blogdeck works on a blog kept as a posts/posts.json index plus one
markdown document per post. It lists, searches and pages through posts
from the terminal, serves the blog with a JSON API and live reload, adds
new posts to the index, checks the content for mistakes and exports
static post pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file instead of stderr")
}

// setupLogging installs the global logger. Flags win over the config file;
// a broken config file is reported later by the command itself.
func setupLogging() error {
	level, file := "info", ""
	if cfg, err := config.Load(cfgFile); err == nil {
		level, file = cfg.Log.Level, cfg.Log.File
	}
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	if logFile != "" {
		file = logFile
	}

	l, closer, err := logging.New(level, file)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	logging.Install(l)
	closeLog = closer
	return nil
}
