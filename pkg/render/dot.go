// Package render turns dependency snapshots into Graphviz node-link
// diagrams.
//
// Convert a snapshot to DOT format, then render to SVG or PNG:
//
//	dot, err := render.ToDOT(snap, "requests", render.Options{})
//	svg, err := render.RenderSVG(dot)
package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pypeek/pypeek/pkg/deps"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes installed versions in node labels and requirement
	// specifiers on edges. When false, only package keys are shown.
	Detailed bool
}

// ToDOT converts the subgraph of snap reachable from root to Graphviz DOT
// format. The root node is drawn with a grey fill to distinguish it from
// its dependencies. The resulting DOT string can be rendered with
// [RenderSVG] or [RenderPNG].
//
// Cycles in the snapshot are safe: every package is emitted once.
func ToDOT(snap *deps.Snapshot, root string, opts Options) (string, error) {
	rootKey := deps.NormalizeKey(root)
	if !snap.Has(rootKey) {
		return "", fmt.Errorf("render %q: %w", root, deps.ErrUnknownPackage)
	}

	nodes, edges := collect(snap, rootKey)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, key := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(snap, key, opts.Detailed))}
		if key == rootKey {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if opts.Detailed && e.req != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=18];\n", e.from, e.to, e.req)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

type edge struct {
	from, to, req string
}

// collect walks the adjacency map from root, returning the reachable keys
// in emission order (root first, then sorted discovery order) and every
// edge between them.
func collect(snap *deps.Snapshot, root string) ([]string, []edge) {
	var (
		nodes []string
		edges []edge
		seen  = map[string]bool{root: true}
		queue = []string{root}
	)

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		nodes = append(nodes, key)

		direct, ok := snap.Direct(key)
		if !ok {
			continue
		}
		for _, depKey := range slices.Sorted(maps.Keys(direct)) {
			edges = append(edges, edge{from: key, to: depKey, req: direct[depKey]})
			if !seen[depKey] {
				seen[depKey] = true
				queue = append(queue, depKey)
			}
		}
	}
	return nodes, edges
}

func nodeLabel(snap *deps.Snapshot, key string, detailed bool) string {
	if !detailed {
		return key
	}
	info, ok := snap.Info(key)
	if !ok || info.InstalledVersion == "" {
		return key
	}
	return key + "\n" + info.InstalledVersion
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
