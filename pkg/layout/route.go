package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// route writes final waypoints for every connection touching the laid-out
// region. Solver sections are used when present. Otherwise connections at
// a boundary marker, and message flows, are handed to the model's own
// connection layout, and everything else gets an orthogonal path between
// the endpoint centers.
func (r *run) route() error {
	idx := newIndex(r.m)
	for _, c := range idx.conns {
		if !r.region[c.Source] && !r.region[c.Target] {
			continue
		}
		if pts, ok := r.sectionRoute(c.ID); ok {
			if err := r.m.SetWaypoints(c.ID, pts); err != nil {
				return fmt.Errorf("route %s: %w", c.ID, err)
			}
			r.stats.Routed++
			continue
		}

		src, tgt := idx.nodes[c.Source], idx.nodes[c.Target]
		r.stats.Fallback++
		if src.Kind() != diagram.KindBoundaryMarker && tgt.Kind() != diagram.KindBoundaryMarker && c.Kind != diagram.ConnMessage {
			pts := fallbackRoute(src.Bounds, tgt.Bounds, r.cfg.RouteSnap)
			if geom.Distinct(pts) >= 2 {
				if err := r.m.SetWaypoints(c.ID, pts); err != nil {
					return fmt.Errorf("route %s: %w", c.ID, err)
				}
				continue
			}
		}
		if _, err := r.m.LayoutConnection(c.ID); err != nil {
			return fmt.Errorf("route %s: %w", c.ID, err)
		}
	}
	return nil
}

// sectionRoute converts a recorded solver route to absolute coordinates,
// removing rounding noise and repeated points. It reports false when there
// is no usable route, including one that still has a diagonal segment.
func (r *run) sectionRoute(id string) ([]geom.Point, bool) {
	ps, ok := r.sections[id]
	if !ok {
		return nil, false
	}
	var pts []geom.Point
	for _, s := range ps.sections {
		for _, p := range s.Points() {
			pts = append(pts, p.Add(ps.origin))
		}
	}
	pts = geom.Dedupe(snapRoute(pts, r.cfg.RouteSnap))
	for i := 1; i < len(pts); i++ {
		if !geom.IsOrthogonal(pts[i-1], pts[i]) {
			r.log.Debug("discarding diagonal solver route", "connection", id)
			return nil, false
		}
	}
	return pts, geom.Distinct(pts) >= 2
}

// snapRoute zeroes axis deltas smaller than tol between consecutive points,
// in place.
func snapRoute(pts []geom.Point, tol float64) []geom.Point {
	for i := 1; i < len(pts); i++ {
		if math.Abs(pts[i].X-pts[i-1].X) < tol {
			pts[i].X = pts[i-1].X
		}
		if math.Abs(pts[i].Y-pts[i-1].Y) < tol {
			pts[i].Y = pts[i-1].Y
		}
	}
	return pts
}

// fallbackRoute connects the centers of s and t: straight when they line
// up within tol, otherwise an L that runs first along the axis with the
// larger displacement.
func fallbackRoute(s, t geom.Rect, tol float64) []geom.Point {
	a, b := s.Center(), t.Center()
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case math.Abs(dy) <= tol:
		return []geom.Point{a, geom.Pt(b.X, a.Y)}
	case math.Abs(dx) <= tol:
		return []geom.Point{a, geom.Pt(a.X, b.Y)}
	case math.Abs(dx) >= math.Abs(dy):
		return []geom.Point{a, geom.Pt(b.X, a.Y), b}
	}
	return []geom.Point{a, geom.Pt(a.X, b.Y), b}
}
