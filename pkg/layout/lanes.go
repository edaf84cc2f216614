package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// fitLanes resizes lanes in the laid-out region so they enclose their
// primary descendants with container padding. Inside a pool a lane spans
// the pool's width right of the label band and never leaves the pool.
// Lanes without primary descendants keep their bounds.
func (r *run) fitLanes() error {
	idx := newIndex(r.m)
	for _, id := range idx.order {
		lane := idx.nodes[id]
		if lane.Type != diagram.TypeLane || !r.region[id] {
			continue
		}
		var rects []geom.Rect
		for d := range idx.descendants(id) {
			if n := idx.nodes[d]; d != id && isPrimary(n) {
				rects = append(rects, n.Bounds)
			}
		}
		box, ok := geom.Bounds(rects)
		if !ok {
			continue
		}
		want := box.Expand(r.cfg.ContainerPadding)
		if pool, ok := enclosingPool(idx, id); ok {
			top := max(want.Top(), pool.Top())
			bottom := min(want.Bottom(), pool.Bottom())
			left := pool.Left() + r.cfg.PoolLabelBand
			want = geom.Rect{X: left, Y: top, W: pool.Right() - left, H: bottom - top}
		}
		b := lane.Bounds
		if math.Abs(want.X-b.X) <= r.cfg.ResizeThreshold && math.Abs(want.Y-b.Y) <= r.cfg.ResizeThreshold &&
			math.Abs(want.W-b.W) <= r.cfg.ResizeThreshold && math.Abs(want.H-b.H) <= r.cfg.ResizeThreshold {
			continue
		}
		if _, err := r.m.ResizeNode(id, want); err != nil {
			return fmt.Errorf("fit lane %s: %w", id, err)
		}
		r.stats.Resized++
	}
	return nil
}

func enclosingPool(idx *index, id string) (geom.Rect, bool) {
	for p := idx.nodes[id].Parent; p != ""; p = idx.nodes[p].Parent {
		if n := idx.nodes[p]; n.Type.IsPool() {
			return n.Bounds, true
		}
	}
	return geom.Rect{}, false
}
