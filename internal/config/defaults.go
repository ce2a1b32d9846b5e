package config

// DefaultMaxHits matches the page database's default search result limit.
const DefaultMaxHits = 100

// DefaultCacheSize is the query fingerprint cache capacity when none is configured.
const DefaultCacheSize = 10000

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/pagerag/data/pages.db"
	}
	if cfg.Search.MaxHits == 0 {
		cfg.Search.MaxHits = DefaultMaxHits
	}
	if cfg.Fingerprint.CacheSize == nil {
		n := DefaultCacheSize
		cfg.Fingerprint.CacheSize = &n
	}
	if cfg.Index.Sanitizer == "" {
		cfg.Index.Sanitizer = "text"
	}
	// RebuildOnStart defaults to true when unset (nil).
	if cfg.Index.RebuildOnStart == nil {
		t := true
		cfg.Index.RebuildOnStart = &t
	}
}
