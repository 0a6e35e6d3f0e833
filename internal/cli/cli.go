// Package cli implements the pypeek command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/internal/config"
	"github.com/pypeek/pypeek/pkg/cache"
	"github.com/pypeek/pypeek/pkg/pypi"
	"github.com/pypeek/pypeek/pkg/store"
)

const (
	// appName is the application name used for directories and display.
	appName = "pypeek"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration (or defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}

	path, err := config.Path()
	if err == nil {
		if cfg, err := config.Load(path); err == nil {
			c.Config = cfg
		} else {
			c.Logger.Warnf("Ignoring config: %v", err)
		}
	}
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pypeek inspects PyPI packages and installed dependency trees",
		Long:         `Pypeek is a read-only view over PyPI and the local Python environment: package metadata, dependency listings in several formats, nested trees, visualizations, and bulk metadata downloads.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.depsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.namesCommand())
	root.AddCommand(c.refreshCommand())
	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.vizCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newClient creates a PyPI client backed by the configured cache, with any
// endpoint overrides from the config file applied.
func (c *CLI) newClient(ctx context.Context, noCache bool) *pypi.Client {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		c.Logger.Warnf("Cache unavailable, running uncached: %v", err)
		backend = cache.NewNullCache()
	}
	client := pypi.NewClient(backend, time.Duration(c.Config.Cache.TTL))

	if u := c.Config.Index.BaseURL; u != "" {
		client.BaseURL = u
	}
	if u := c.Config.Index.SimpleURL; u != "" {
		client.SimpleURL = u
	}
	if u := c.Config.Index.UserURL; u != "" {
		client.UserURL = u
	}
	return client
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr, appName)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore creates the document store for bulk downloads per the config
// file, overridable with an explicit directory.
func (c *CLI) newStore(ctx context.Context, dir string) (store.Store, error) {
	if dir == "" && c.Config.Store.Backend == "mongo" {
		return store.NewMongo(ctx, c.Config.Store.MongoURI, c.Config.Store.MongoDatabase, c.Config.Store.MongoCollection)
	}
	if dir == "" {
		dir = c.Config.Store.Dir
	}
	if dir == "" {
		base, err := cacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "store")
	}
	return store.NewJSONDir(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pypeek/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
