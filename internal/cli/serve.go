package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/internal/server"
	"github.com/pypeek/pypeek/pkg/deps"
	"github.com/pypeek/pypeek/pkg/pipdeptree"
)

// serveCommand creates the serve command: expose the API over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		binary   string
		noCache  bool
		environ  bool
		snapOnce *deps.Snapshot
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve package info and dependency queries over HTTP",
		Long: `Start an HTTP server exposing:

  GET /packages/{name}                      live info from PyPI
  GET /packages/{name}/dependencies         dependency listing
      ?format=names|names-with-req|tuples|details
      &transitive=true&problems=true
  GET /packages/{name}/tree                 nested dependency tree

Dependency queries run pipdeptree per request; --environment snapshots the
whole environment once at startup instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.newClient(ctx, noCache)
			source := &pipdeptree.Source{Binary: binary}

			if environ {
				snap, err := environmentSnapshot(ctx, source)
				if err != nil {
					return err
				}
				snapOnce = snap
				c.Logger.Infof("Snapshotted %d installed packages", snap.Len())
			}

			srv := server.New(client, func(r *http.Request, pkg string) (*deps.Snapshot, error) {
				if snapOnce != nil {
					return snapOnce, nil
				}
				return source.Snapshot(r.Context(), pkg)
			}, c.Logger)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			c.Logger.Infof("Listening on %s", addr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&binary, "pipdeptree", "", "pipdeptree binary to invoke")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the HTTP cache")
	cmd.Flags().BoolVar(&environ, "environment", false, "snapshot the whole environment once at startup")

	return cmd
}

// environmentSnapshot normalizes the records of every installed package,
// not just one package's subtree. Scoped per-package invocations go through
// Source.Snapshot instead.
func environmentSnapshot(ctx context.Context, source *pipdeptree.Source) (*deps.Snapshot, error) {
	records, err := source.Environment(ctx)
	if err != nil {
		return nil, err
	}
	return deps.Normalize(records)
}
