// Package config loads the pypeek configuration file.
//
// Configuration lives at ~/.config/pypeek/config.toml (or under
// $XDG_CONFIG_HOME). Every field has a working default, so a missing file
// is not an error. Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "pypeek"

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the full configuration file.
type Config struct {
	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Index IndexConfig `toml:"index"`
}

// CacheConfig selects and tunes the HTTP response cache.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`
	// TTL is how long cached responses stay fresh.
	TTL Duration `toml:"ttl"`
	// RedisAddr is the host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig selects the backend for downloaded package documents.
type StoreConfig struct {
	// Backend is "jsondir" or "mongo".
	Backend string `toml:"backend"`
	// Dir is the directory for the jsondir backend. Empty means
	// <cache dir>/store.
	Dir string `toml:"dir"`
	// MongoURI, MongoDatabase, and MongoCollection configure the mongo
	// backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// IndexConfig overrides the PyPI endpoints, e.g. for a private mirror.
type IndexConfig struct {
	BaseURL   string `toml:"base_url"`
	SimpleURL string `toml:"simple_url"`
	UserURL   string `toml:"user_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:   "file",
			TTL:       Duration(24 * time.Hour),
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:         "jsondir",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "pypeek",
			MongoCollection: "packages",
		},
	}
}

// Path returns the configuration file location using the XDG standard
// (~/.config/pypeek/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path, layered over the defaults. A
// missing file returns the defaults without error; a malformed file is an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
