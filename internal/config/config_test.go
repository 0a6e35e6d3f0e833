package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.TTL) != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", time.Duration(cfg.Cache.TTL))
	}
	if cfg.Store.Backend != "jsondir" {
		t.Errorf("store backend = %q, want jsondir", cfg.Store.Backend)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[cache]
backend = "redis"
ttl = "1h"
redis_addr = "redis.internal:6379"

[index]
base_url = "https://mirror.internal/pypi"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if time.Duration(cfg.Cache.TTL) != time.Hour {
		t.Errorf("ttl = %v, want 1h", time.Duration(cfg.Cache.TTL))
	}
	if cfg.Index.BaseURL != "https://mirror.internal/pypi" {
		t.Errorf("base url = %q", cfg.Index.BaseURL)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.MongoDatabase != "pypeek" {
		t.Errorf("mongo database = %q, want pypeek", cfg.Store.MongoDatabase)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("cache = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/tmp/xdg-config", "pypeek", "config.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}
