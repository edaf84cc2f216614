package graphviz

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/solver"
)

const (
	dpi           = 72.0
	clusterPrefix = "cluster_"
	anchorPrefix  = "__anchor_"
	mainGroup     = "main"
)

var rankdirs = map[solver.Direction]string{
	solver.Right: "LR",
	solver.Down:  "TB",
	solver.Left:  "RL",
	solver.Up:    "BT",
}

// ToDOT converts a solver graph to DOT source.
func ToDOT(root *solver.Node, opts solver.Options) string {
	opts = opts.WithDefaults()
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdirs[opts.Direction])
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSpacing))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.LayerSpacing))
	if opts.EdgeRouting == solver.RoutingOrthogonal {
		buf.WriteString("  splines=ortho;\n")
	}
	if opts.CrossingMinimization != "" {
		buf.WriteString("  mclimit=2.0;\n")
	}
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	groups := priorityNodes(root)
	writeBody(&buf, root, groups, "  ")

	buf.WriteString("}\n")
	return buf.String()
}

func writeBody(buf *bytes.Buffer, n *solver.Node, groups map[string]bool, indent string) {
	skip := make(map[string]bool)
	for _, c := range n.Children {
		if pinned(c) {
			skip[c.ID] = true
			continue
		}
		if c.IsContainer() {
			fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, clusterPrefix+c.ID)
			margin := solver.PaddingOf(c).Max()
			fmt.Fprintf(buf, "%s  margin=%s;\n", indent, strconv.FormatFloat(margin, 'f', -1, 64))
			fmt.Fprintf(buf, "%s  %q [shape=point, width=0.01, height=0.01, style=invis];\n", indent, anchorPrefix+c.ID)
			writeBody(buf, c, groups, indent+"  ")
			fmt.Fprintf(buf, "%s}\n", indent)
			continue
		}
		attrs := []string{
			"width=" + inches(c.Width),
			"height=" + inches(c.Height),
		}
		if groups[c.ID] {
			attrs = append(attrs, "group="+mainGroup)
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, c.ID, strings.Join(attrs, ", "))
	}
	containers := make(map[string]bool)
	for _, c := range n.Children {
		if c.IsContainer() {
			containers[c.ID] = true
		}
	}
	for _, e := range n.Edges {
		if skip[e.Source] || skip[e.Target] {
			continue
		}
		src, tgt := e.Source, e.Target
		if containers[src] {
			src = anchorPrefix + src
		}
		if containers[tgt] {
			tgt = anchorPrefix + tgt
		}
		attrs := []string{fmt.Sprintf("id=%q", e.ID)}
		if e.IsPriority() {
			attrs = append(attrs, "weight="+solver.HighPriority)
		}
		fmt.Fprintf(buf, "%s%q -> %q [%s];\n", indent, src, tgt, strings.Join(attrs, ", "))
	}
}

// pinned reports whether n is fixed context with a known position. dot
// cannot hold a node in place, so such nodes are left out of the graph and
// keep the position they came with.
func pinned(n *solver.Node) bool { return n.Fixed && n.Positioned }

// priorityNodes collects leaf endpoints of priority edges.
func priorityNodes(root *solver.Node) map[string]bool {
	out := make(map[string]bool)
	root.Walk(func(n *solver.Node) {
		for _, e := range n.Edges {
			if e.IsPriority() {
				out[e.Source] = true
				out[e.Target] = true
			}
		}
	})
	return out
}

func inches(px float64) string {
	return strconv.FormatFloat(px/dpi, 'f', 4, 64)
}
