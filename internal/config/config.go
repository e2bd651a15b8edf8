package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BLOGDECK_"

// keys lists every configuration key. Environment variables are matched
// against this list because several keys contain underscores themselves.
var keys = []string{
	"site.dir",
	"site.base_url",
	"site.index_path",
	"site.posts_path",
	"site.cache_bust",
	"listing.page_size",
	"listing.excerpt_length",
	"listing.recent_count",
	"locale",
	"server.port",
	"server.allow_all_origins",
	"server.live_reload",
	"server.db_path",
	"server.fetch_timeout",
	"log.level",
	"log.file",
}

var envKeys = func() map[string]string {
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[EnvVar(k)] = k
	}
	return m
}()

// EnvVar returns the environment variable overriding key, for example
// BLOGDECK_SERVER_PORT for server.port.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BLOGDECK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: BLOGDECK_SERVER_PORT -> server.port, etc.
	// Unknown BLOGDECK_ variables map to "" and are skipped by the provider.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Site.Dir == "" && c.Site.BaseURL == "" {
		return fmt.Errorf("site.dir or site.base_url is required")
	}

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid site.base_url %q: must be an http or https URL", c.Site.BaseURL)
		}
	}

	if c.Site.IndexPath == "" {
		return fmt.Errorf("site.index_path is required")
	}

	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("listing.page_size must be positive")
	}

	if c.Listing.ExcerptLength <= 0 {
		return fmt.Errorf("listing.excerpt_length must be positive")
	}

	if c.Listing.RecentCount <= 0 {
		return fmt.Errorf("listing.recent_count must be positive")
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Server.FetchTimeout != "" {
		if d, err := time.ParseDuration(c.Server.FetchTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid server.fetch_timeout %q", c.Server.FetchTimeout)
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	return nil
}
