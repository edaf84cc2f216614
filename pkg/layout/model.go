package layout

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// Model is the diagram the engine reads and mutates. The engine only changes
// geometry: node bounds and connection waypoints.
//
// *diagram.Diagram implements Model.
type Model interface {
	// Nodes and Connections enumerate the diagram in model order. Node
	// values carry their Children.
	Nodes() []diagram.Node
	Connections() []diagram.Connection
	Node(id string) (diagram.Node, bool)

	// MoveNode translates a node (and whatever the model moves along with
	// it) and returns the live node.
	MoveNode(id string, dx, dy float64) (diagram.Node, error)
	// ResizeNode sets absolute bounds and returns the live node.
	ResizeNode(id string, bounds geom.Rect) (diagram.Node, error)
	SetWaypoints(id string, points []geom.Point) error
	// LayoutConnection routes a connection with the model's own
	// boundary-aware logic and stores the result.
	LayoutConnection(id string) ([]geom.Point, error)
}

var _ Model = (*diagram.Diagram)(nil)

// index is a read-only snapshot of a Model. Stages take a fresh snapshot
// because earlier stages move things.
type index struct {
	nodes map[string]diagram.Node
	order []string
	conns []diagram.Connection
	// out lists outgoing sequence flows per node in model order.
	out map[string][]diagram.Connection
}

func newIndex(m Model) *index {
	nodes := m.Nodes()
	idx := &index{
		nodes: make(map[string]diagram.Node, len(nodes)),
		order: make([]string, 0, len(nodes)),
		conns: m.Connections(),
		out:   make(map[string][]diagram.Connection),
	}
	for _, n := range nodes {
		idx.nodes[n.ID] = n
		idx.order = append(idx.order, n.ID)
	}
	for _, c := range idx.conns {
		if c.Kind == diagram.ConnSequence {
			idx.out[c.Source] = append(idx.out[c.Source], c)
		}
	}
	return idx
}

// topLevel returns the IDs of nodes without a parent, in model order.
func (x *index) topLevel() []string {
	var ids []string
	for _, id := range x.order {
		if x.nodes[id].Parent == "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// children returns the direct children of id; the empty ID names the
// diagram root.
func (x *index) children(id string) []string {
	if id == "" {
		return x.topLevel()
	}
	return x.nodes[id].Children
}

// descendants returns id and every node below it.
func (x *index) descendants(id string) map[string]bool {
	out := make(map[string]bool)
	var walk func(string)
	walk = func(nid string) {
		if out[nid] {
			return
		}
		out[nid] = true
		for _, c := range x.nodes[nid].Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// hasAncestorIn reports whether a strict ancestor of id is in set.
func (x *index) hasAncestorIn(id string, set map[string]bool) bool {
	seen := make(map[string]bool)
	for p := x.nodes[id].Parent; p != "" && !seen[p]; p = x.nodes[p].Parent {
		if set[p] {
			return true
		}
		seen[p] = true
	}
	return false
}

// isPrimary reports whether a node takes part in the flow layout.
func isPrimary(n diagram.Node) bool {
	k := n.Kind()
	return k == diagram.KindSimple || k == diagram.KindContainer
}

// size returns the node's size, substituting defaults for degenerate values.
func (c Config) size(n diagram.Node) (float64, float64) {
	w, h := n.Bounds.W, n.Bounds.H
	if w <= 0 {
		w = c.DefaultWidth
	}
	if h <= 0 {
		h = c.DefaultHeight
	}
	return w, h
}
