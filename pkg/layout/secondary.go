package layout

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// placeSecondary positions annotations and data references.
//
// A decoration linked by an association to a primary node is placed in a
// row centered on that node: annotations above it, data references below
// it, SecondaryOffset away. Decorations without such a link go in a row
// under the laid-out nodes. Every placement is pushed clear of decorations
// placed before it. Groups and fixed decorations are never moved.
func (r *run) placeSecondary() error {
	idx := newIndex(r.m)
	links := secondaryLinks(idx)

	var hosts []string
	linked := make(map[string][]diagram.Node)
	var unlinked []diagram.Node
	for _, id := range idx.order {
		n := idx.nodes[id]
		if !(n.Type.IsAnnotation() || n.Type.IsData()) || r.fixed[id] {
			continue
		}
		host, ok := links[id]
		switch {
		case ok && r.region[host]:
			if _, seen := linked[host]; !seen {
				hosts = append(hosts, host)
			}
			linked[host] = append(linked[host], n)
		case !ok && !r.subset && r.region[id]:
			unlinked = append(unlinked, n)
		}
	}

	var placed []geom.Rect
	for _, host := range hosts {
		hb := idx.nodes[host].Bounds
		var above, below []diagram.Node
		for _, n := range linked[host] {
			if n.Type.IsAnnotation() {
				above = append(above, n)
			} else {
				below = append(below, n)
			}
		}
		if err := r.placeRow(above, hb, true, &placed); err != nil {
			return err
		}
		if err := r.placeRow(below, hb, false, &placed); err != nil {
			return err
		}
	}
	return r.placeUnlinked(idx, unlinked, &placed)
}

// secondaryLinks maps each decoration to the primary node of its first
// association in model order.
func secondaryLinks(idx *index) map[string]string {
	links := make(map[string]string)
	for _, c := range idx.conns {
		if c.Kind != diagram.ConnAssociation {
			continue
		}
		for _, pair := range [][2]string{{c.Source, c.Target}, {c.Target, c.Source}} {
			deco, other := idx.nodes[pair[0]], idx.nodes[pair[1]]
			if _, done := links[deco.ID]; done || deco.Kind() != diagram.KindSecondary || !isPrimary(other) {
				continue
			}
			links[deco.ID] = other.ID
		}
	}
	return links
}

// placeRow spreads decorations horizontally centered on host.
func (r *run) placeRow(decos []diagram.Node, host geom.Rect, above bool, placed *[]geom.Rect) error {
	if len(decos) == 0 {
		return nil
	}
	total := r.cfg.SecondaryGap * float64(len(decos)-1)
	for _, d := range decos {
		total += d.Bounds.W
	}
	x := host.CenterX() - total/2
	for _, d := range decos {
		y := host.Bottom() + r.cfg.SecondaryOffset
		if above {
			y = host.Top() - r.cfg.SecondaryOffset - d.Bounds.H
		}
		want := avoid(geom.Rect{X: x, Y: y, W: d.Bounds.W, H: d.Bounds.H}, *placed, r.cfg.SecondaryGap, above)
		if err := r.place(d.ID, want, placed); err != nil {
			return err
		}
		x += d.Bounds.W + r.cfg.SecondaryGap
	}
	return nil
}

// placeUnlinked lines up decorations left to right below the bounding box
// of the laid-out nodes.
func (r *run) placeUnlinked(idx *index, decos []diagram.Node, placed *[]geom.Rect) error {
	if len(decos) == 0 {
		return nil
	}
	var rects []geom.Rect
	for _, id := range idx.order {
		if r.laidOut[id] && isPrimary(idx.nodes[id]) {
			rects = append(rects, idx.nodes[id].Bounds)
		}
	}
	box, ok := geom.Bounds(rects)
	if !ok {
		box = geom.Rect{X: r.cfg.MarginX, Y: r.cfg.MarginY}
	}
	x := box.Left()
	for _, d := range decos {
		want := geom.Rect{X: x, Y: box.Bottom() + r.cfg.SecondaryOffset, W: d.Bounds.W, H: d.Bounds.H}
		want = avoid(want, *placed, r.cfg.SecondaryGap, false)
		if err := r.place(d.ID, want, placed); err != nil {
			return err
		}
		x = want.Right() + r.cfg.SecondaryGap
	}
	return nil
}

func (r *run) place(id string, want geom.Rect, placed *[]geom.Rect) error {
	if _, err := r.moveTo(id, want.Origin()); err != nil {
		return err
	}
	*placed = append(*placed, want)
	r.stats.Placed++
	return nil
}

// avoid moves rect off the placed rectangles: first to the right of the
// obstacle, and if that spot is taken too, vertically away from it (up when
// up is set). rect only ever moves one way and ends past every obstacle it
// hits, so len(placed)+1 rounds always settle.
func avoid(rect geom.Rect, placed []geom.Rect, gap float64, up bool) geom.Rect {
	for range len(placed) + 1 {
		hit, ok := firstOverlap(rect, placed)
		if !ok {
			return rect
		}
		right := rect
		right.X = hit.Right() + gap
		if _, blocked := firstOverlap(right, placed); !blocked {
			return right
		}
		if up {
			rect.Y = hit.Top() - gap - rect.H
		} else {
			rect.Y = hit.Bottom() + gap
		}
	}
	return rect
}

func firstOverlap(rect geom.Rect, placed []geom.Rect) (geom.Rect, bool) {
	for _, p := range placed {
		if rect.Overlaps(p) {
			return p, true
		}
	}
	return geom.Rect{}, false
}
