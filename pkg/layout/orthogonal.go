package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/geom"
)

// correctOrthogonal turns near-diagonal segments into right angles. A
// segment whose smaller axis delta is below OrthoSnap gets that delta
// zeroed; exact and clearly diagonal segments are left alone. Only changed
// connections are written back.
func (r *run) correctOrthogonal() error {
	for _, c := range r.m.Connections() {
		if !r.region[c.Source] && !r.region[c.Target] {
			continue
		}
		pts, changed := straighten(c.Waypoints, r.cfg.OrthoSnap)
		if !changed {
			continue
		}
		if err := r.m.SetWaypoints(c.ID, pts); err != nil {
			return fmt.Errorf("straighten %s: %w", c.ID, err)
		}
		r.stats.Corrected++
	}
	return nil
}

func straighten(in []geom.Point, snap float64) ([]geom.Point, bool) {
	pts := slices.Clone(in)
	changed := false
	for i := 1; i < len(pts); i++ {
		adx := math.Abs(pts[i].X - pts[i-1].X)
		ady := math.Abs(pts[i].Y - pts[i-1].Y)
		if adx < geom.Epsilon || ady < geom.Epsilon || min(adx, ady) >= snap {
			continue
		}
		if adx < ady {
			pts[i].X = pts[i-1].X
		} else {
			pts[i].Y = pts[i-1].Y
		}
		changed = true
	}
	return pts, changed
}
