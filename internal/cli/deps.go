package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/deps"
)

// depsOpts holds the command-line flags for the deps command.
type depsOpts struct {
	snapshot   snapshotOpts
	format     string
	transitive bool
	problems   bool
	asJSON     bool
}

// depsCommand creates the deps command: dependency listings in several
// formats over a pipdeptree snapshot.
func (c *CLI) depsCommand() *cobra.Command {
	opts := depsOpts{format: string(deps.FormatNames)}

	cmd := &cobra.Command{
		Use:   "deps <package>",
		Short: "List a package's dependencies",
		Long: `List the dependencies of an installed package.

Formats:
  names           bare package names
  names-with-req  names with their requirement suffix (e.g. "soupsieve>1.2")
  tuples          name, operator, and version of the first requirement clause
  details         required vs installed versions

Examples:
  pypeek deps beautifulsoup4
  pypeek deps beautifulsoup4 --transitive --format names-with-req
  pypeek deps beautifulsoup4 --format details --problems
  pipdeptree --json | pypeek deps beautifulsoup4 -i -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd, args[0], &opts)
		},
	}

	addSnapshotFlags(cmd, &opts.snapshot)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format (names|names-with-req|tuples|details)")
	cmd.Flags().BoolVarP(&opts.transitive, "transitive", "t", false, "include transitive dependencies")
	cmd.Flags().BoolVar(&opts.problems, "problems", false, "only dependencies whose installed version violates its requirement (details format)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit JSON")

	return cmd
}

func (c *CLI) runDeps(cmd *cobra.Command, pkg string, opts *depsOpts) error {
	if opts.problems {
		opts.format = string(deps.FormatDetails)
	}
	format, err := deps.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	snap, err := opts.snapshot.load(cmd.Context(), pkg)
	if err != nil {
		return err
	}

	switch format {
	case deps.FormatNames:
		names, err := snap.Names(pkg, opts.transitive)
		if err != nil {
			return err
		}
		return printList(names, opts.asJSON)
	case deps.FormatNamesWithReq:
		names, err := snap.NamesWithReq(pkg, opts.transitive)
		if err != nil {
			return err
		}
		return printList(names, opts.asJSON)
	case deps.FormatTuples:
		tuples, err := snap.Tuples(pkg, opts.transitive)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return printJSON(tuples)
		}
		for _, t := range tuples {
			fmt.Printf("%s\t%s\t%s\n", t.Name, t.Operator, t.Version)
		}
		return nil
	case deps.FormatDetails:
		report, err := snap.Details(pkg, deps.DetailOptions{
			IncludeTransitive: opts.transitive,
			OnlyProblematic:   opts.problems,
		})
		if err != nil {
			return err
		}
		return printDetails(pkg, report, opts)
	}
	return nil
}

func printDetails(pkg string, report *deps.DetailReport, opts *depsOpts) error {
	if opts.asJSON {
		failures := make([]map[string]string, len(report.Failures))
		for i, f := range report.Failures {
			failures[i] = map[string]string{"key": f.Key, "error": f.Err.Error()}
		}
		return printJSON(map[string]any{
			"dependencies": report.Details,
			"failures":     failures,
		})
	}

	for _, d := range report.Details {
		req := d.RequiredVersion
		if req == "" {
			req = "any"
		}
		fmt.Printf("%s  %s  %s\n",
			StyleValue.Render(d.PackageName),
			StyleDim.Render("requires "+req),
			"installed "+d.InstalledVersion,
		)
	}
	if opts.problems && len(report.Details) == 0 && len(report.Failures) == 0 {
		printSuccess("No problematic dependencies of %s", pkg)
	}
	for _, f := range report.Failures {
		printWarning("%s: %v", f.Key, f.Err)
	}
	return nil
}

func printList(items []string, asJSON bool) error {
	if asJSON {
		return printJSON(items)
	}
	if len(items) > 0 {
		fmt.Println(strings.Join(items, "\n"))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
