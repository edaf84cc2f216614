package diagram

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/geom"
)

// markerClearance is how far a marker's outgoing route drops below the marker
// before turning when the target is not below it.
const markerClearance = 20

// MoveNode translates a node and all of its descendants by (dx, dy). When
// FollowHosts is set, boundary markers attached to any moved node move too.
// The live, updated node is returned.
func (d *Diagram) MoveNode(id string, dx, dy float64) (Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	moved := make(map[string]bool)
	var walk func(string)
	walk = func(nid string) {
		if moved[nid] {
			return
		}
		moved[nid] = true
		node := d.nodes[nid]
		node.Bounds = node.Bounds.Translate(dx, dy)
		for _, c := range d.children[nid] {
			walk(c)
		}
	}
	walk(id)

	if d.FollowHosts {
		for _, mid := range d.order {
			m := d.nodes[mid]
			if m.Kind() == KindBoundaryMarker && !moved[mid] && moved[m.Host] {
				walk(mid)
			}
		}
	}
	return d.snapshot(n), nil
}

// ResizeNode replaces a node's bounds and returns the live node. Children are
// not moved.
func (d *Diagram) ResizeNode(id string, bounds geom.Rect) (Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Bounds = bounds
	return d.snapshot(n), nil
}

// SetWaypoints replaces the waypoint list of a connection.
func (d *Diagram) SetWaypoints(id string, points []geom.Point) error {
	c, ok := d.conns[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, id)
	}
	c.Waypoints = slices.Clone(points)
	return nil
}

// LayoutConnection computes and stores a boundary-aware orthogonal route for
// a connection from the current node geometry.
//
// Connections leaving a boundary marker exit through the marker's bottom,
// since markers sit on their host's lower border. Message connections run
// vertically between pools unless the endpoints sit side by side. Everything
// else is routed between facing sides with a Z-shaped path.
func (d *Diagram) LayoutConnection(id string) ([]geom.Point, error) {
	c, ok := d.conns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, id)
	}
	src, ok := d.nodes[c.Source]
	if !ok {
		return nil, fmt.Errorf("%w: source %s of %s", ErrUnknownNode, c.Source, id)
	}
	tgt, ok := d.nodes[c.Target]
	if !ok {
		return nil, fmt.Errorf("%w: target %s of %s", ErrUnknownNode, c.Target, id)
	}

	var pts []geom.Point
	switch {
	case src.Kind() == KindBoundaryMarker:
		pts = markerRoute(src.Bounds, tgt.Bounds)
	case c.Kind == ConnMessage && !overlapsY(src.Bounds, tgt.Bounds):
		pts = verticalRoute(src.Bounds, tgt.Bounds)
	default:
		pts = horizontalRoute(src.Bounds, tgt.Bounds)
	}
	pts = geom.Dedupe(pts)
	c.Waypoints = slices.Clone(pts)
	return pts, nil
}

func markerRoute(s, t geom.Rect) []geom.Point {
	sx, sb := s.CenterX(), s.Bottom()
	if t.CenterY() > sb {
		tx := t.Left()
		if t.CenterX() < sx {
			tx = t.Right()
		}
		if sx >= t.Left() && sx <= t.Right() {
			return []geom.Point{geom.Pt(sx, sb), geom.Pt(sx, t.Top())}
		}
		return []geom.Point{geom.Pt(sx, sb), geom.Pt(sx, t.CenterY()), geom.Pt(tx, t.CenterY())}
	}
	drop := math.Max(sb, t.Bottom()) + markerClearance
	return []geom.Point{
		geom.Pt(sx, sb),
		geom.Pt(sx, drop),
		geom.Pt(t.CenterX(), drop),
		geom.Pt(t.CenterX(), t.Bottom()),
	}
}

func verticalRoute(s, t geom.Rect) []geom.Point {
	sx, tx := s.CenterX(), t.CenterX()
	if t.Top() >= s.Bottom() {
		mid := (s.Bottom() + t.Top()) / 2
		return []geom.Point{geom.Pt(sx, s.Bottom()), geom.Pt(sx, mid), geom.Pt(tx, mid), geom.Pt(tx, t.Top())}
	}
	mid := (t.Bottom() + s.Top()) / 2
	return []geom.Point{geom.Pt(sx, s.Top()), geom.Pt(sx, mid), geom.Pt(tx, mid), geom.Pt(tx, t.Bottom())}
}

func horizontalRoute(s, t geom.Rect) []geom.Point {
	sy, ty := s.CenterY(), t.CenterY()
	if t.CenterX() >= s.CenterX() {
		mid := (s.Right() + t.Left()) / 2
		return []geom.Point{geom.Pt(s.Right(), sy), geom.Pt(mid, sy), geom.Pt(mid, ty), geom.Pt(t.Left(), ty)}
	}
	mid := (t.Right() + s.Left()) / 2
	return []geom.Point{geom.Pt(s.Left(), sy), geom.Pt(mid, sy), geom.Pt(mid, ty), geom.Pt(t.Right(), ty)}
}

func overlapsY(a, b geom.Rect) bool {
	return a.Top() < b.Bottom() && b.Top() < a.Bottom()
}
