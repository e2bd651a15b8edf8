package config

// Config is the top-level blogdeck configuration, corresponding to .blogdeck.yml.
type Config struct {
	Site    SiteConfig    `yaml:"site" koanf:"site"`
	Listing ListingConfig `yaml:"listing" koanf:"listing"`
	Locale  string        `yaml:"locale" koanf:"locale"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// SiteConfig says where the blog content lives.
type SiteConfig struct {
	// Dir is the site root holding the index and post documents.
	Dir string `yaml:"dir" koanf:"dir"`
	// BaseURL, when set, makes every command read content over HTTP
	// instead of from Dir.
	BaseURL   string `yaml:"base_url" koanf:"base_url"`
	IndexPath string `yaml:"index_path" koanf:"index_path"`
	PostsPath string `yaml:"posts_path" koanf:"posts_path"`
	CacheBust bool   `yaml:"cache_bust" koanf:"cache_bust"`
}

// ListingConfig holds the listing page settings.
type ListingConfig struct {
	PageSize      int `yaml:"page_size" koanf:"page_size"`
	ExcerptLength int `yaml:"excerpt_length" koanf:"excerpt_length"`
	RecentCount   int `yaml:"recent_count" koanf:"recent_count"`
}

// ServerConfig holds settings for `blogdeck serve`.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LiveReload      bool   `yaml:"live_reload" koanf:"live_reload"`
	DBPath          string `yaml:"db_path" koanf:"db_path"`
	FetchTimeout    string `yaml:"fetch_timeout" koanf:"fetch_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}
