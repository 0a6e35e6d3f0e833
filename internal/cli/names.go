package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/pypi"
)

// namesCommand creates the names command: list known package names.
func (c *CLI) namesCommand() *cobra.Command {
	var (
		user    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List package names from PyPI",
		Long: `List package names from the locally stored PyPI name list, or the
projects of a PyPI user.

The full name list is fetched with "pypeek refresh" and served from disk
afterwards; --user always queries PyPI live.

Examples:
  pypeek names
  pypeek names --user thorwhalen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if user != "" {
				client := c.newClient(ctx, noCache)
				projects, err := client.FetchUserProjects(ctx, user)
				if err != nil {
					return err
				}
				for _, p := range projects {
					fmt.Printf("%s\t%s\n", p.Name, StyleDim.Render(p.Date))
				}
				return nil
			}

			backend, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			list, ok, err := pypi.LoadNameList(ctx, backend)
			if err != nil {
				return err
			}
			if !ok {
				printInfo("No name list stored yet")
				printDetail("Run: pypeek refresh")
				return nil
			}
			for _, stub := range slices.Sorted(maps.Values(list.Names)) {
				fmt.Println(stub)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "list a PyPI user's projects instead")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// refreshCommand creates the refresh command: re-fetch the PyPI name list.
func (c *CLI) refreshCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored PyPI name list",
		Long: `Fetch the PyPI simple index and store the full package name list
locally, reporting how the count changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.newClient(ctx, noCache)
			backend, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}

			sp := newSpinnerWithContext(ctx, "Fetching the PyPI simple index...")
			sp.Start()
			prog := newProgress(c.Logger)
			had, now, err := pypi.RefreshNameList(ctx, client, backend)
			if err != nil {
				sp.StopWithError(fmt.Sprintf("Refresh failed: %v", err))
				return err
			}
			sp.StopWithSuccess(fmt.Sprintf("Name list refreshed: %d packages (was %d)", now, had))
			prog.done(fmt.Sprintf("Fetched %d names", now))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
