package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/pkg/render"
)

// vizCommand creates the viz command: render a dependency graph with Graphviz.
func (c *CLI) vizCommand() *cobra.Command {
	var (
		snapshot snapshotOpts
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "viz <package>",
		Short: "Render a package's dependency graph",
		Long: `Render the dependency graph of an installed package as a node-link
diagram. The output format follows the file extension: .dot, .svg, or .png.
Without --output the DOT source is printed to stdout.

Examples:
  pypeek viz beautifulsoup4
  pypeek viz fastapi -o fastapi.svg --detailed
  pypeek viz fastapi -o fastapi.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			dot, err := render.ToDOT(snap, args[0], render.Options{Detailed: detailed})
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot":
				data = []byte(dot)
			case ".svg":
				data, err = render.RenderSVG(dot)
			case ".png":
				data, err = render.RenderPNG(dot)
			default:
				return fmt.Errorf("unsupported output extension %q (use .dot, .svg, or .png)", ext)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %s", args[0])
			printFile(output)
			return nil
		},
	}

	addSnapshotFlags(cmd, &snapshot)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .svg, or .png; stdout DOT if empty)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include versions and requirement labels")

	return cmd
}
