package layout

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// fixStranded moves boundary markers that did not follow their host back
// onto it, two thirds of the way along the host's bottom edge. A marker
// counts as stranded when its center lies outside the host's bounds grown
// by MarkerTolerance. Markers that followed are left alone.
func (r *run) fixStranded() error {
	idx := newIndex(r.m)
	for _, id := range idx.order {
		n := idx.nodes[id]
		if n.Kind() != diagram.KindBoundaryMarker || r.fixed[id] || !r.region[n.Host] {
			continue
		}
		host, ok := idx.nodes[n.Host]
		if !ok {
			continue
		}
		hb := host.Bounds
		if hb.Expand(r.cfg.MarkerTolerance).ContainsPoint(n.Bounds.Center()) {
			continue
		}
		anchor := geom.Pt(hb.X+hb.W*2/3, hb.Bottom())
		want := geom.Pt(anchor.X-n.Bounds.W/2, anchor.Y-n.Bounds.H/2)
		if _, err := r.moveTo(id, want); err != nil {
			return err
		}
		r.stats.StrandedFixed++
		r.log.Debug("reattached stranded marker", "marker", id, "host", host.ID)
	}
	return nil
}
