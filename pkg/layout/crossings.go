package layout

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

// CrossingPair names two connections whose routes intersect.
type CrossingPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// DetectCrossings reports every unordered pair of connections with at least
// one pair of properly intersecting segments, in model order. Touching at a
// shared endpoint or overlapping collinearly does not count. It never
// modifies m.
func DetectCrossings(m Model) []CrossingPair {
	return crossings(m.Connections())
}

func crossings(conns []diagram.Connection) []CrossingPair {
	var pairs []CrossingPair
	for i := range conns {
		for j := i + 1; j < len(conns); j++ {
			if routesCross(conns[i].Waypoints, conns[j].Waypoints) {
				pairs = append(pairs, CrossingPair{A: conns[i].ID, B: conns[j].ID})
			}
		}
	}
	return pairs
}

func routesCross(a, b []geom.Point) bool {
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			if geom.SegmentsCross(a[i-1], a[i], b[j-1], b[j]) {
				return true
			}
		}
	}
	return false
}
