package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/config"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blogdeck init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newFetcher reads content over HTTP when a base URL is configured and from
// the site directory otherwise.
func newFetcher(cfg *config.Config) posts.Fetcher {
	if cfg.Site.BaseURL != "" {
		return posts.NewHTTPFetcher(cfg.Site.BaseURL, cfg.Server.Timeout(), cfg.Site.CacheBust)
	}
	return posts.DirFetcher{FS: os.DirFS(cfg.Site.Dir)}
}

// messages returns the strings of the configured locale.
func messages(cfg *config.Config) blog.Messages {
	return blog.MessagesFor(cfg.Locale)
}

// newStore creates a post store and loads its index.
func newStore(ctx context.Context, cfg *config.Config) *posts.Store {
	store := posts.NewStore(newFetcher(cfg), posts.Options{
		IndexPath:     cfg.Site.IndexPath,
		PostsDir:      strings.TrimSuffix(cfg.Site.PostsPath, "/"),
		ExcerptLength: cfg.Listing.ExcerptLength,
	})
	store.LoadIndex(ctx)
	return store
}

// newCoordinator creates a listing over a freshly loaded store.
func newCoordinator(ctx context.Context, cfg *config.Config) *blog.Coordinator {
	return blog.New(newStore(ctx, cfg), blogOptions(cfg))
}

func blogOptions(cfg *config.Config) blog.Options {
	return blog.Options{
		PageSize:    cfg.Listing.PageSize,
		RecentCount: cfg.Listing.RecentCount,
		Messages:    messages(cfg),
	}
}
