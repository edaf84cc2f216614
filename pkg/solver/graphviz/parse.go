package graphviz

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

type output struct {
	BB      string     `json:"bb"`
	Objects []gvObject `json:"objects"`
	Edges   []gvEdge   `json:"edges"`
}

type gvObject struct {
	Name   string `json:"name"`
	BB     string `json:"bb"`
	Pos    string `json:"pos"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type gvEdge struct {
	ID  string `json:"id"`
	Pos string `json:"pos"`
}

// Apply maps Graphviz JSON output onto a copy of root. Graphviz reports
// absolute coordinates with y growing upward; the copy gets parent-relative,
// y-down coordinates.
func Apply(root *solver.Node, data []byte) (*solver.Node, error) {
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode graphviz output: %w", err)
	}
	bb, err := parseBB(out.BB)
	if err != nil {
		return nil, fmt.Errorf("graph bb: %w", err)
	}
	height := bb.Y + bb.H

	rects := make(map[string]geom.Rect, len(out.Objects))
	for _, o := range out.Objects {
		switch {
		case strings.HasPrefix(o.Name, clusterPrefix):
			r, err := parseBB(o.BB)
			if err != nil {
				return nil, fmt.Errorf("cluster %s: %w", o.Name, err)
			}
			rects[o.Name] = flip(r, height)
		case o.Pos != "":
			c, err := parsePoint(o.Pos)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", o.Name, err)
			}
			w, _ := strconv.ParseFloat(o.Width, 64)
			h, _ := strconv.ParseFloat(o.Height, 64)
			w, h = w*dpi, h*dpi
			rects[o.Name] = geom.Rect{X: c.X - w/2, Y: height - c.Y - h/2, W: w, H: h}
		}
	}
	paths := make(map[string][]geom.Point, len(out.Edges))
	for _, e := range out.Edges {
		if e.ID == "" || e.Pos == "" {
			continue
		}
		pts, err := parseSpline(e.Pos, height)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		paths[e.ID] = pts
	}

	// The root is not a cluster, so its padding is added around the
	// drawing here.
	pad := solver.PaddingOf(root)
	res := root.Clone()
	res.X, res.Y = 0, 0
	res.Width = pad.Left + bb.W + pad.Right
	res.Height = pad.Top + bb.H + pad.Bottom
	res.Positioned = true
	origin := flip(bb, height).Origin().Sub(geom.Pt(pad.Left, pad.Top))
	if err := assign(res, origin, rects, paths); err != nil {
		return nil, err
	}
	return res, nil
}

// assign positions the children of n from rects and attaches routes to
// edges between leaves. Edges touching a cluster or a pinned node keep no
// sections.
func assign(n *solver.Node, origin geom.Point, rects map[string]geom.Rect, paths map[string][]geom.Point) error {
	unrouted := make(map[string]bool)
	for _, c := range n.Children {
		if pinned(c) {
			unrouted[c.ID] = true
			continue
		}
		key := c.ID
		if c.IsContainer() {
			key = clusterPrefix + c.ID
			unrouted[c.ID] = true
		}
		r, ok := rects[key]
		if !ok {
			return fmt.Errorf("graphviz output has no geometry for %s", c.ID)
		}
		c.X, c.Y = r.X-origin.X, r.Y-origin.Y
		c.Positioned = true
		if c.IsContainer() {
			c.Width, c.Height = r.W, r.H
			if err := assign(c, r.Origin(), rects, paths); err != nil {
				return err
			}
		}
	}
	for _, e := range n.Edges {
		pts, ok := paths[e.ID]
		if !ok || unrouted[e.Source] || unrouted[e.Target] || len(pts) < 2 {
			e.Sections = nil
			continue
		}
		local := make([]geom.Point, len(pts))
		for i, p := range pts {
			local[i] = p.Sub(origin)
		}
		e.Sections = []solver.Section{{
			Start: local[0],
			End:   local[len(local)-1],
			Bends: local[1 : len(local)-1],
		}}
	}
	return nil
}

// parseSpline converts an edge "pos" attribute into an orthogonal y-down
// polyline. Only on-curve B-spline points (every third control point) are
// kept. The explicit start and end points replace the first and last
// on-curve points, projected onto the axis of the segment they continue,
// and any remaining diagonal gets an elbow.
func parseSpline(pos string, height float64) ([]geom.Point, error) {
	// Multi-spline edges separate splines with ';'; the first one suffices.
	pos, _, _ = strings.Cut(pos, ";")
	var start, end *geom.Point
	var ctrl []geom.Point
	for _, tok := range strings.Fields(pos) {
		switch {
		case strings.HasPrefix(tok, "e,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			end = &p
		case strings.HasPrefix(tok, "s,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			start = &p
		default:
			p, err := parsePoint(tok)
			if err != nil {
				return nil, err
			}
			ctrl = append(ctrl, p)
		}
	}
	var pts []geom.Point
	for i := 0; i < len(ctrl); i += 3 {
		pts = append(pts, ctrl[i])
	}
	if n := len(ctrl); n > 0 && (n-1)%3 != 0 {
		pts = append(pts, ctrl[n-1])
	}
	pts = geom.Dedupe(pts)
	if end != nil {
		pts = attach(pts, *end)
	}
	if start != nil {
		slices.Reverse(pts)
		pts = attach(pts, *start)
		slices.Reverse(pts)
	}
	for i := range pts {
		pts[i].Y = height - pts[i].Y
	}
	return elbows(geom.Dedupe(pts)), nil
}

// attach ends pts at p. The last point is moved onto p along the axis of
// the final segment, and p follows when it lies off that axis.
func attach(pts []geom.Point, p geom.Point) []geom.Point {
	n := len(pts)
	if n < 2 {
		return append(pts, p)
	}
	a, b := pts[n-2], pts[n-1]
	if math.Abs(b.Y-a.Y) <= math.Abs(b.X-a.X) {
		pts[n-1] = geom.Pt(p.X, a.Y)
	} else {
		pts[n-1] = geom.Pt(a.X, p.Y)
	}
	if !pts[n-1].Eq(p) {
		pts = append(pts, p)
	}
	return pts
}

// elbows inserts a corner into every segment that is neither horizontal
// nor vertical, running horizontally first.
func elbows(pts []geom.Point) []geom.Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]geom.Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		prev := out[len(out)-1]
		if math.Abs(p.X-prev.X) >= geom.Epsilon && math.Abs(p.Y-prev.Y) >= geom.Epsilon {
			out = append(out, geom.Pt(p.X, prev.Y))
		}
		out = append(out, p)
	}
	return out
}

func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSuffix(ys, "!"), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}

// parseBB parses "llx,lly,urx,ury" into a y-up rectangle anchored at its
// lower-left corner.
func parseBB(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("invalid bb %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("invalid bb %q: %w", s, err)
		}
		v[i] = f
	}
	return geom.Rect{X: v[0], Y: v[1], W: v[2] - v[0], H: v[3] - v[1]}, nil
}

// flip converts a y-up lower-left rectangle into a y-down top-left one.
func flip(r geom.Rect, height float64) geom.Rect {
	return geom.Rect{X: r.X, Y: height - (r.Y + r.H), W: r.W, H: r.H}
}
