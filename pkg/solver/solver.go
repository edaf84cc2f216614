// Package solver defines the boundary between the layout pipeline and a
// layered graph-drawing algorithm.
//
// The pipeline builds a hierarchical [Node] tree (containers hold nested
// children and the edges between them), hands it to a [Solver] together
// with [Options], and reads back positions, container sizes and edge
// [Section]s. Solvers are treated as pure functions: the input tree is
// never mutated and the result mirrors its shape.
//
// # Coordinates
//
// Result coordinates are local: a node's X and Y are its top-left corner
// relative to the top-left corner of its parent. Edge sections are
// relative to the container whose Edges list holds the edge.
//
// # Implementations
//
// The graphviz subpackage runs the dot engine; the layered subpackage is a
// small deterministic in-process implementation. [Cached] memoizes either.
package solver

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/geom"
)

// Node is a solver graph node. Containers carry Children and the Edges
// among them; leaves carry only a size.
type Node struct {
	ID       string            `json:"id"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	Width    float64           `json:"width,omitempty"`
	Height   float64           `json:"height,omitempty"`
	Options  map[string]string `json:"layoutOptions,omitempty"`
	Children []*Node           `json:"children,omitempty"`
	Edges    []*Edge           `json:"edges,omitempty"`

	// Positioned is set by the solver once X and Y hold a result.
	Positioned bool `json:"positioned,omitempty"`
	// Fixed marks context nodes the pipeline will not move. When Positioned
	// is also set, X and Y hold the node's current place and solvers keep
	// the other children clear of it.
	Fixed bool `json:"fixed,omitempty"`
}

// Edge is a solver graph edge between two nodes of the same container.
type Edge struct {
	ID       string            `json:"id"`
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Options  map[string]string `json:"layoutOptions,omitempty"`
	Sections []Section         `json:"sections,omitempty"`
}

// Section is one routed piece of an edge.
type Section struct {
	Start geom.Point   `json:"startPoint"`
	End   geom.Point   `json:"endPoint"`
	Bends []geom.Point `json:"bendPoints,omitempty"`
}

// Points returns start, bends and end as one polyline.
func (s Section) Points() []geom.Point {
	pts := make([]geom.Point, 0, len(s.Bends)+2)
	pts = append(pts, s.Start)
	pts = append(pts, s.Bends...)
	return append(pts, s.End)
}

// Solver lays out a graph.
type Solver interface {
	Layout(ctx context.Context, root *Node, opts Options) (*Node, error)
}

// Func adapts a function to the Solver interface.
type Func func(ctx context.Context, root *Node, opts Options) (*Node, error)

// Layout calls f.
func (f Func) Layout(ctx context.Context, root *Node, opts Options) (*Node, error) {
	return f(ctx, root, opts)
}

// IsContainer reports whether n has children.
func (n *Node) IsContainer() bool { return len(n.Children) > 0 }

// Rect returns the node's local bounds.
func (n *Node) Rect() geom.Rect { return geom.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height} }

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the descendant (or n itself) with the given ID.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.ID == id {
			found = c
		}
	})
	return found
}

// Count returns the number of nodes in the tree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	out := *n
	out.Options = maps.Clone(n.Options)
	out.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		out.Children[i] = c.Clone()
	}
	out.Edges = make([]*Edge, len(n.Edges))
	for i, e := range n.Edges {
		ec := *e
		ec.Options = maps.Clone(e.Options)
		ec.Sections = nil
		for _, s := range e.Sections {
			ec.Sections = append(ec.Sections, Section{Start: s.Start, End: s.End, Bends: slices.Clone(s.Bends)})
		}
		out.Edges[i] = &ec
	}
	if len(n.Children) == 0 {
		out.Children = nil
	}
	if len(n.Edges) == 0 {
		out.Edges = nil
	}
	return &out
}
