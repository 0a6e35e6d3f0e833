package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/pypi"
	"github.com/pypeek/pypeek/pkg/store"
)

// downloadOpts holds the command-line flags for the download command.
type downloadOpts struct {
	user     string // download a PyPI user's projects
	storeDir string // JSON-directory store override
	refresh  bool   // overwrite already-stored packages
	plain    bool   // line output instead of the progress UI
	noCache  bool
}

// downloadCommand creates the download command: bulk-fetch package info
// documents into the configured store.
func (c *CLI) downloadCommand() *cobra.Command {
	var opts downloadOpts

	cmd := &cobra.Command{
		Use:   "download [package...]",
		Short: "Download package info documents into the local store",
		Long: `Fetch the PyPI info document for each named package and store it
locally. Packages already in the store are skipped unless --refresh is set.
Failures are reported per package and never abort the batch.

Examples:
  pypeek download requests numpy pandas
  pypeek download --user thorwhalen
  pypeek download requests --refresh --store ./pypi-docs`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDownload(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "download all projects of a PyPI user")
	cmd.Flags().StringVar(&opts.storeDir, "store", "", "store directory (default: <cache dir>/store, or mongo per config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-fetch packages already stored")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "line-by-line output instead of the progress view")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP cache")

	return cmd
}

func (c *CLI) runDownload(ctx context.Context, names []string, opts *downloadOpts) error {
	client := c.newClient(ctx, opts.noCache)

	if opts.user != "" {
		projects, err := client.FetchUserProjects(ctx, opts.user)
		if err != nil {
			return err
		}
		for _, p := range projects {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to download: name packages or pass --user")
	}

	st, err := c.newStore(ctx, opts.storeDir)
	if err != nil {
		return err
	}

	var report *pypi.DownloadReport
	if opts.plain {
		report, err = c.downloadPlain(ctx, client, st, names, opts.refresh)
	} else {
		report, err = c.downloadTUI(ctx, client, st, names, opts.refresh)
	}
	if report != nil {
		printSummary(report)
	}
	return err
}

func (c *CLI) downloadPlain(ctx context.Context, client *pypi.Client, st store.Store, names []string, refresh bool) (*pypi.DownloadReport, error) {
	prog := newProgress(c.Logger)
	report, err := pypi.DownloadInfos(ctx, client, st, names, pypi.DownloadOptions{
		Refresh: refresh,
		Progress: func(i, n int, res pypi.DownloadResult) {
			switch {
			case res.Err != nil:
				printError("[%d/%d] %s: %v", i, n, res.Name, res.Err)
			case res.Skipped:
				printDetail("[%d/%d] %s already stored", i, n, res.Name)
			default:
				printSuccess("[%d/%d] %s", i, n, res.Name)
			}
		},
	})
	if err != nil {
		return report, err
	}
	prog.done(fmt.Sprintf("Downloaded %d packages", report.Stored()))
	return report, nil
}

func (c *CLI) downloadTUI(ctx context.Context, client *pypi.Client, st store.Store, names []string, refresh bool) (*pypi.DownloadReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newDownloadModel(len(names), cancel)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var (
		report *pypi.DownloadReport
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, runErr = pypi.DownloadInfos(ctx, client, st, names, pypi.DownloadOptions{
			Refresh: refresh,
			Progress: func(i, n int, res pypi.DownloadResult) {
				p.Send(downloadResultMsg{i: i, n: n, res: res})
			},
		})
		p.Send(downloadDoneMsg{err: runErr})
	}()

	_, err := p.Run()
	<-done
	if runErr == nil {
		runErr = err
	}
	return report, runErr
}

func printSummary(report *pypi.DownloadReport) {
	printInfo("Job %s: %d stored, %d skipped, %d failed",
		report.JobID, report.Stored(), report.Skipped(), report.Failed())
	for _, res := range report.Results {
		if res.Err != nil {
			printWarning("%s: %v", res.Name, res.Err)
		}
	}
}
