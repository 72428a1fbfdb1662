package nodelink

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/graphize/pkg/tree"
)

// ErrNothingToDraw is returned for the empty tree.
var ErrNothingToDraw = errors.New("nothing to draw")

// Options configures node-link diagram rendering.
type Options struct {
	// Direction is the way the tree grows. Empty means DOWN.
	Direction Direction

	// Detailed adds the node ID and depth to every label.
	// When false, only the node text is shown.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format. Nodes and edges are written
// in tree order. The resulting DOT string can be rendered using [RenderSVG].
//
// Container nodes are drawn with a grey fill and the root with a heavier
// outline, so the structure reads at a glance.
func ToDOT(s *tree.State, opts Options) (string, error) {
	if s.IsEmpty() {
		return "", ErrNothingToDraw
	}
	dir := opts.Direction
	if dir == "" {
		dir = DefaultDirection
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir.RankDir())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, color=\"#1a192b\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#1a192b\", arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(n tree.Node, detailed bool) string {
	if !detailed {
		return n.Text
	}
	return fmt.Sprintf("%s\nid: %s\ndepth: %d", n.Text, n.ID, n.Depth)
}

func fmtAttrs(n tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Data.Value.IsContainer() && n.Data.Value.Len() > 0 {
		attrs = append(attrs, "fillcolor=\"#f1f5f9\"")
	}
	if n.ID == tree.RootID {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}
