package layout

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// Synthetic solver roots. They never name a diagram node, so the appliers
// skip them.
const (
	rootID   = "__root__"
	subsetID = "__subset__"
)

// builder turns part of the diagram into a solver graph.
type builder struct {
	idx      *index
	cfg      Config
	priority map[string]bool
}

// build returns the solver graph for the container scope, or for the whole
// diagram when scope is empty. Structural nodes such as lanes are
// transparent: their primary descendants are laid out as if they belonged
// to the nearest enclosing container.
func (b *builder) build(scope string) *solver.Node {
	root := &solver.Node{ID: rootID}
	if scope != "" {
		n := b.idx.nodes[scope]
		root = b.leaf(n)
		root.Options = map[string]string{solver.KeyPadding: b.cfg.padding(n.Type.IsPool()).String()}
	}
	owner := make(map[string]*solver.Node)
	b.expand(root, scope, owner)
	b.attachEdges(owner)
	return root
}

// expand adds the graph children of container id to parent, recursing into
// nested containers. owner records the solver container of every node.
func (b *builder) expand(parent *solver.Node, id string, owner map[string]*solver.Node) {
	for _, cid := range b.graphChildren(id) {
		c := b.idx.nodes[cid]
		child := b.leaf(c)
		owner[cid] = parent
		if c.Kind() == diagram.KindContainer && len(b.graphChildren(cid)) > 0 {
			child.Options = map[string]string{solver.KeyPadding: b.cfg.padding(c.Type.IsPool()).String()}
			b.expand(child, cid, owner)
		}
		parent.Children = append(parent.Children, child)
	}
}

// graphChildren lists the primary nodes directly under id, looking through
// structural nodes.
func (b *builder) graphChildren(id string) []string {
	var out []string
	for _, cid := range b.idx.children(id) {
		c := b.idx.nodes[cid]
		switch {
		case isPrimary(c):
			out = append(out, cid)
		case c.Kind() == diagram.KindStructural:
			out = append(out, b.graphChildren(cid)...)
		}
	}
	return out
}

func (b *builder) leaf(n diagram.Node) *solver.Node {
	w, h := b.cfg.size(n)
	return &solver.Node{ID: n.ID, Width: w, Height: h}
}

// attachEdges adds every connection whose endpoints share a solver
// container to that container, in model order.
func (b *builder) attachEdges(owner map[string]*solver.Node) {
	for _, c := range b.idx.conns {
		src, okS := owner[c.Source]
		tgt, okT := owner[c.Target]
		if !okS || !okT || src != tgt {
			continue
		}
		src.Edges = append(src.Edges, b.edge(c))
	}
}

func (b *builder) edge(c diagram.Connection) *solver.Edge {
	e := &solver.Edge{ID: c.ID, Source: c.Source, Target: c.Target}
	if b.priority[c.ID] {
		e.Options = map[string]string{
			solver.KeyPriorityStraightness: solver.HighPriority,
			solver.KeyPriorityDirection:    solver.HighPriority,
		}
	}
	return e
}

// buildSubset lays out the given nodes as siblings of a synthetic root.
// Members nested inside another member are left to move with it. When pin
// is set, decorations associated with a member join the graph as fixed
// context at their current position relative to origin, together with
// their associations.
func (b *builder) buildSubset(ids []string, pin bool, origin geom.Point) (*solver.Node, map[string]bool) {
	root := &solver.Node{ID: subsetID}
	members := make(map[string]bool, len(ids))
	for _, id := range ids {
		members[id] = true
	}
	owner := make(map[string]*solver.Node)
	for _, id := range b.idx.order {
		if !members[id] || b.idx.hasAncestorIn(id, members) {
			continue
		}
		root.Children = append(root.Children, b.leaf(b.idx.nodes[id]))
		owner[id] = root
	}

	fixed := make(map[string]bool)
	if pin {
		for _, c := range b.idx.conns {
			if c.Kind != diagram.ConnAssociation {
				continue
			}
			for _, pair := range [][2]string{{c.Source, c.Target}, {c.Target, c.Source}} {
				deco, other := b.idx.nodes[pair[0]], pair[1]
				if deco.Kind() != diagram.KindSecondary || owner[other] == nil || owner[deco.ID] != nil {
					continue
				}
				n := b.leaf(deco)
				n.X, n.Y = deco.Bounds.X-origin.X, deco.Bounds.Y-origin.Y
				n.Width, n.Height = deco.Bounds.W, deco.Bounds.H
				n.Fixed, n.Positioned = true, true
				root.Children = append(root.Children, n)
				owner[deco.ID] = root
				fixed[deco.ID] = true
			}
		}
	}
	b.attachEdges(owner)
	return root, fixed
}
