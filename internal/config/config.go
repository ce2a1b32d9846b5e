// Package config provides configuration loading and structs for the pagerag server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug        bool              `yaml:"debug"`
	ReloadConfig bool              `yaml:"reload_config"`
	Server       ServerConfig      `yaml:"server"`
	Storage      StorageConfig     `yaml:"storage"`
	Search       SearchConfig      `yaml:"search"`
	Fingerprint  FingerprintConfig `yaml:"fingerprint"`
	Index        IndexConfig       `yaml:"index"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the page source. A postgres:// DSN reads the wiki database
// directly; otherwise the SQLite database at DatabasePath is used.
type StorageConfig struct {
	DSN          string `yaml:"dsn"`
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds query settings.
type SearchConfig struct {
	// MaxHits is the upper bound on results returned by a query.
	MaxHits int `yaml:"max_hits"`
}

// FingerprintConfig holds fingerprint generator settings.
type FingerprintConfig struct {
	// CacheSize is the LRU capacity for query fingerprints; 0 or negative disables the
	// cache. Unset means DefaultCacheSize.
	CacheSize *int `yaml:"cache_size"`
}

// CacheSizeOrDefault returns the cache capacity, DefaultCacheSize when unset.
func (c *FingerprintConfig) CacheSizeOrDefault() int {
	if c.CacheSize != nil {
		return *c.CacheSize
	}
	return DefaultCacheSize
}

// IndexConfig holds rebuild settings.
type IndexConfig struct {
	Sanitizer      string `yaml:"sanitizer"`
	RebuildOnStart *bool  `yaml:"rebuild_on_start"`
	// Workers bounds concurrent page fingerprinting during a rebuild; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// RebuildOnStartOrDefault returns whether to rebuild at startup; defaults to true when unset.
func (c *IndexConfig) RebuildOnStartOrDefault() bool {
	if c.RebuildOnStart != nil {
		return *c.RebuildOnStart
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// Validate reports settings that cannot be used.
func Validate(cfg *Config) error {
	if cfg.Search.MaxHits < 0 {
		return fmt.Errorf("invalid config: search.max_hits must be positive, got %d", cfg.Search.MaxHits)
	}
	if cfg.Index.Workers < 0 {
		return fmt.Errorf("invalid config: index.workers must not be negative, got %d", cfg.Index.Workers)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
