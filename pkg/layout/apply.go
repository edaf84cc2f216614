package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// placedSection is a solver route together with the container it belongs
// to and that container's absolute origin.
type placedSection struct {
	owner    string
	origin   geom.Point
	sections []solver.Section
}

// applyPositions writes the absolute position of every solved node below n.
// origin is n's absolute top-left corner. Each container's children are
// placed relative to the container's live position after its own move,
// since the model may adjust a move. Edge sections are recorded with the
// origin they are relative to.
func (r *run) applyPositions(n *solver.Node, origin geom.Point) error {
	for _, e := range n.Edges {
		if len(e.Sections) == 0 || r.fixed[e.Source] || r.fixed[e.Target] {
			continue
		}
		r.sections[e.ID] = placedSection{owner: n.ID, origin: origin, sections: e.Sections}
	}
	for _, c := range n.Children {
		if r.fixed[c.ID] {
			continue
		}
		var live diagram.Node
		if c.Positioned {
			var err error
			if live, err = r.moveTo(c.ID, origin.Add(geom.Pt(c.X, c.Y))); err != nil {
				return err
			}
		} else {
			var ok bool
			if live, ok = r.m.Node(c.ID); !ok {
				continue
			}
		}
		if err := r.applyPositions(c, live.Bounds.Origin()); err != nil {
			return err
		}
	}
	return nil
}

// moveTo moves a node so its top-left lands on want, unless it is already
// within the dead zone. It returns the live node.
func (r *run) moveTo(id string, want geom.Point) (diagram.Node, error) {
	cur, ok := r.m.Node(id)
	if !ok {
		return diagram.Node{}, fmt.Errorf("move %s: %w", id, diagram.ErrUnknownNode)
	}
	dx, dy := want.X-cur.Bounds.X, want.Y-cur.Bounds.Y
	if math.Abs(dx) <= r.cfg.MoveDeadZone && math.Abs(dy) <= r.cfg.MoveDeadZone {
		return cur, nil
	}
	live, err := r.m.MoveNode(id, dx, dy)
	if err != nil {
		return diagram.Node{}, fmt.Errorf("move %s: %w", id, err)
	}
	r.stats.Moved++
	return live, nil
}

// applySizes resizes solved containers to their computed size, anchored at
// their current top-left. Leaves are resized only when their model size is
// degenerate. It must run after applyPositions.
func (r *run) applySizes(n *solver.Node) error {
	if err := r.resize(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := r.applySizes(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) resize(n *solver.Node) error {
	if r.fixed[n.ID] || n.Width <= 0 || n.Height <= 0 {
		return nil
	}
	live, ok := r.m.Node(n.ID)
	if !ok {
		return nil
	}
	b := live.Bounds
	if !n.IsContainer() && b.W > 0 && b.H > 0 {
		return nil
	}
	if math.Abs(n.Width-b.W) <= r.cfg.ResizeThreshold && math.Abs(n.Height-b.H) <= r.cfg.ResizeThreshold {
		return nil
	}
	if _, err := r.m.ResizeNode(n.ID, geom.Rect{X: b.X, Y: b.Y, W: n.Width, H: n.Height}); err != nil {
		return fmt.Errorf("resize %s: %w", n.ID, err)
	}
	r.stats.Resized++
	return nil
}
