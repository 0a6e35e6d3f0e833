package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command: live package metadata from PyPI.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show package metadata from PyPI",
		Long: `Fetch a package's metadata from the PyPI JSON API.

Responses are cached; use --refresh to fetch a fresh copy, or --raw for the
full untyped API document.

Examples:
  pypeek info requests
  pypeek info requests --raw
  pypeek info requests --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.newClient(ctx, noCache)

			if raw {
				doc, err := client.FetchRawInfo(ctx, args[0], refresh)
				if err != nil {
					return err
				}
				return printJSON(doc)
			}

			info, err := client.FetchInfo(ctx, args[0], refresh)
			if err != nil {
				return err
			}
			main := info.MainInfo()

			fmt.Println(StyleTitle.Render(info.Info.Name) + " " + main.Version)
			if main.Summary != "" {
				printDetail("%s", main.Summary)
			}
			fmt.Println()
			if main.HomePage != "" {
				printKeyValue("home page", StyleLink.Render(main.HomePage))
			}
			if main.ProjectURL != "" {
				printKeyValue("project", StyleLink.Render(main.ProjectURL))
			}
			if main.License != "" {
				printKeyValue("license", firstLine(main.License))
			}
			if main.Size > 0 {
				printKeyValue("size", fmt.Sprintf("%d bytes", main.Size))
			}
			if main.UploadTimeISO8601 != "" {
				printKeyValue("uploaded", main.UploadTimeISO8601)
			} else if t, ok := info.LatestReleaseUploadTime(); ok {
				printKeyValue("uploaded", t)
			}
			if len(main.RequiresDist) > 0 {
				printKeyValue("requires", strings.Join(main.RequiresDist, ", "))
			}
			if len(info.Vulnerabilities) > 0 {
				printWarning("%d known vulnerabilities", len(info.Vulnerabilities))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the full JSON API document")

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
