package layout

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// clearPinned moves subset members off pinned decorations. Members settle
// top to bottom; one that overlaps a pinned rectangle, or a member settled
// before it, drops below that obstacle by the node spacing. Solver routes
// inside a moved member follow it and routes attached to it are dropped.
func (r *run) clearPinned(root *solver.Node) error {
	if len(r.fixed) == 0 {
		return nil
	}
	var obstacles []geom.Rect
	var members []diagram.Node
	for _, c := range root.Children {
		n, ok := r.m.Node(c.ID)
		if !ok {
			continue
		}
		if r.fixed[c.ID] {
			obstacles = append(obstacles, n.Bounds)
		} else {
			members = append(members, n)
		}
	}
	slices.SortStableFunc(members, func(a, b diagram.Node) int {
		return cmp.Compare(a.Bounds.Y, b.Bounds.Y)
	})

	idx := newIndex(r.m)
	for _, n := range members {
		want := n.Bounds
		for {
			hit, ok := firstOverlap(want, obstacles)
			if !ok {
				break
			}
			want.Y = hit.Bottom() + r.nodeSpacing
		}
		obstacles = append(obstacles, want)
		dy := want.Y - n.Bounds.Y
		if dy == 0 {
			continue
		}
		if _, err := r.m.MoveNode(n.ID, 0, dy); err != nil {
			return fmt.Errorf("clear %s: %w", n.ID, err)
		}
		r.stats.Moved++
		r.log.Debug("moved off pinned decoration", "node", n.ID, "dy", dy)
		r.shiftSections(idx, n.ID, dy)
	}
	return nil
}

// shiftSections keeps recorded routes consistent after id moved by dy.
func (r *run) shiftSections(idx *index, id string, dy float64) {
	moved := idx.descendants(id)
	for _, c := range idx.conns {
		ps, ok := r.sections[c.ID]
		switch {
		case !ok:
		case moved[ps.owner]:
			ps.origin.Y += dy
			r.sections[c.ID] = ps
		case moved[c.Source] || moved[c.Target]:
			delete(r.sections, c.ID)
		}
	}
}
