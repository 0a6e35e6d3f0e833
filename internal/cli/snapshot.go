package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/deps"
	"github.com/pypeek/pypeek/pkg/pipdeptree"
)

// snapshotOpts selects where the dependency graph comes from: a pipdeptree
// JSON file, stdin, or a live pipdeptree invocation.
type snapshotOpts struct {
	input  string // pipdeptree JSON file, "-" for stdin, "" to run the tool
	binary string // pipdeptree binary override
}

func addSnapshotFlags(cmd *cobra.Command, opts *snapshotOpts) {
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "pipdeptree JSON file to read instead of running pipdeptree (- for stdin)")
	cmd.Flags().StringVar(&opts.binary, "pipdeptree", "", "pipdeptree binary to invoke (default: pipdeptree on PATH)")
}

// load produces a snapshot for pkg. With an input file the whole file is
// normalized; pkg only scopes the live pipdeptree invocation.
func (o *snapshotOpts) load(ctx context.Context, pkg string) (*deps.Snapshot, error) {
	if o.input == "" {
		src := &pipdeptree.Source{Binary: o.binary}
		return src.Snapshot(ctx, pkg)
	}

	r := os.Stdin
	if o.input != "-" {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	records, err := pipdeptree.Decode(r)
	if err != nil {
		return nil, err
	}
	return deps.Normalize(records)
}
