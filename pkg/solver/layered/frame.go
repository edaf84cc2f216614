package layered

import (
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// frame maps between the working frame, where layers advance along +x, and
// the final frame of a direction. ww is the container's working width.
type frame struct {
	dir solver.Direction
}

// size swaps width and height for vertical directions. It is its own inverse.
func (f frame) size(w, h float64) (float64, float64) {
	if f.dir.Horizontal() {
		return w, h
	}
	return h, w
}

func (f frame) padding(p solver.Padding) solver.Padding {
	switch f.dir {
	case solver.Left:
		return solver.Padding{Top: p.Top, Left: p.Right, Bottom: p.Bottom, Right: p.Left}
	case solver.Down:
		return solver.Padding{Top: p.Left, Left: p.Top, Bottom: p.Right, Right: p.Bottom}
	case solver.Up:
		return solver.Padding{Top: p.Left, Left: p.Bottom, Bottom: p.Right, Right: p.Top}
	}
	return p
}

func (f frame) point(p geom.Point, ww float64) geom.Point {
	switch f.dir {
	case solver.Left:
		return geom.Pt(ww-p.X, p.Y)
	case solver.Down:
		return geom.Pt(p.Y, p.X)
	case solver.Up:
		return geom.Pt(p.Y, ww-p.X)
	}
	return p
}

func (f frame) rect(r geom.Rect, ww float64) geom.Rect {
	switch f.dir {
	case solver.Left:
		return geom.Rect{X: ww - r.X - r.W, Y: r.Y, W: r.W, H: r.H}
	case solver.Down:
		return geom.Rect{X: r.Y, Y: r.X, W: r.H, H: r.W}
	case solver.Up:
		return geom.Rect{X: r.Y, Y: ww - r.X - r.W, W: r.H, H: r.W}
	}
	return r
}

// unrect is the inverse of rect.
func (f frame) unrect(r geom.Rect, ww float64) geom.Rect {
	if f.dir == solver.Up {
		return geom.Rect{X: ww - r.Y - r.H, Y: r.X, W: r.H, H: r.W}
	}
	return f.rect(r, ww)
}

func (f frame) section(s solver.Section, ww float64) solver.Section {
	out := solver.Section{Start: f.point(s.Start, ww), End: f.point(s.End, ww)}
	if len(s.Bends) > 0 {
		out.Bends = make([]geom.Point, len(s.Bends))
		for i, b := range s.Bends {
			out.Bends[i] = f.point(b, ww)
		}
	}
	return out
}
