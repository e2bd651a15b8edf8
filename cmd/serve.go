package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/db"
	"github.com/ziadkadry99/blogdeck/internal/livereload"
	"github.com/ziadkadry99/blogdeck/internal/logging"
	"github.com/ziadkadry99/blogdeck/internal/preferences"
	"github.com/ziadkadry99/blogdeck/internal/render"
	"github.com/ziadkadry99/blogdeck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog locally",
	Long: `Serves the site directory over HTTP together with a JSON API for the
listing, rendered post pages and reader preferences. With live reload on,
open post pages refresh whenever a file in the site changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config, 8000)")
	serveCmd.Flags().Bool("no-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.Server.LiveReload = false
	}
	// Only local content can be watched.
	liveReload := cfg.Server.LiveReload && cfg.Site.BaseURL == ""

	database, err := db.Open(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	r, err := render.New()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newStore(ctx, cfg)
	srv := server.New(server.Config{
		Port:        cfg.Server.Port,
		SiteDir:     cfg.Site.Dir,
		AllowAll:    cfg.Server.AllowAllOrigins,
		LiveReload:  liveReload,
		PageSize:    cfg.Listing.PageSize,
		RecentCount: cfg.Listing.RecentCount,
		Locale:      cfg.Locale,
	}, store, r, preferences.NewStore(database))

	log := logging.Component("serve")
	if liveReload {
		watcher, err := livereload.NewWatcher(cfg.Site.Dir, livereload.DefaultDebounce, func() {
			srv.Reload(newStore(ctx, cfg))
		})
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.Site.Dir, err)
		}
		go watcher.Start()
		defer watcher.Stop()
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	fmt.Fprintf(os.Stderr, "blogdeck %s serving %s at http://localhost:%d\n", Version, cfg.Site.Dir, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Posts: %d\n", len(store.Summaries()))
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	fmt.Fprintf(os.Stderr, "  Live reload: %v\n", liveReload)

	return srv.Start()
}
