package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/deps"
)

// treeCommand creates the tree command: a nested dependency view.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		snapshot snapshotOpts
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "tree <package>",
		Short: "Show a package's nested dependency tree",
		Long: `Show the dependency tree of an installed package as a nested view.

Cyclic dependencies are shown once and truncated where the cycle closes.

Examples:
  pypeek tree beautifulsoup4
  pypeek tree fastapi --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree, err := snap.Tree(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(tree)
			}
			printTree(tree, 0)
			return nil
		},
	}

	addSnapshotFlags(cmd, &snapshot)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")

	return cmd
}

func printTree(nodes map[string]deps.TreeNode, depth int) {
	for _, key := range slices.Sorted(maps.Keys(nodes)) {
		node := nodes[key]
		line := key
		if node.RequiredVersion != "" {
			line += " " + StyleDim.Render(node.RequiredVersion)
		}
		for i := 0; i < depth; i++ {
			line = "  " + line
		}
		fmt.Println(line)
		printTree(node.Dependencies, depth+1)
	}
}
