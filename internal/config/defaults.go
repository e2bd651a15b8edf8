package config

import "time"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".blogdeck.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Dir:       ".",
			IndexPath: "posts/posts.json",
			PostsPath: "posts",
			CacheBust: true,
		},
		Listing: ListingConfig{
			PageSize:      5,
			ExcerptLength: 120,
			RecentCount:   3,
		},
		Locale: "ko",
		Server: ServerConfig{
			Port:         8000,
			LiveReload:   true,
			DBPath:       ".blogdeck/blogdeck.db",
			FetchTimeout: "10s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the parsed fetch timeout, or 10s when unset or invalid.
func (s ServerConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(s.FetchTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
