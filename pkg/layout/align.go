package layout

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/diagram"
)

// alignRanks snaps near-equal row centers of laid-out nodes to their median.
//
// Siblings are grouped into ranks by their center on the layer axis
// (consecutive centers at most half the node spacing apart), each rank into
// rows by their center on the cross axis (consecutive centers at most
// SameRowThreshold apart), and every member of a row with two or more nodes
// is moved along the cross axis only. For horizontal directions the layer
// axis is x.
func (r *run) alignRanks() error {
	idx := newIndex(r.m)
	groups := make(map[string][]diagram.Node)
	var parents []string
	for _, id := range idx.order {
		n := idx.nodes[id]
		if !r.laidOut[id] || !isPrimary(n) {
			continue
		}
		if _, seen := groups[n.Parent]; !seen {
			parents = append(parents, n.Parent)
		}
		groups[n.Parent] = append(groups[n.Parent], n)
	}

	horizontal := r.dir.Horizontal()
	for _, p := range parents {
		for _, row := range rankRows(groups[p], horizontal, r.nodeSpacing/2, r.cfg.SameRowThreshold) {
			if err := r.snapRow(row, horizontal); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) snapRow(row []diagram.Node, horizontal bool) error {
	centers := make([]float64, len(row))
	for i, n := range row {
		centers[i] = crossCenter(n, horizontal)
	}
	m := median(centers)
	for i, n := range row {
		d := m - centers[i]
		if math.Abs(d) <= r.cfg.AlignTolerance {
			continue
		}
		dx, dy := 0.0, d
		if !horizontal {
			dx, dy = d, 0
		}
		if _, err := r.m.MoveNode(n.ID, dx, dy); err != nil {
			return fmt.Errorf("align %s: %w", n.ID, err)
		}
		r.stats.Aligned++
	}
	return nil
}

// rankRows partitions nodes into ranks and ranks into rows, returning only
// rows of at least two nodes.
func rankRows(nodes []diagram.Node, horizontal bool, rankTol, rowTol float64) [][]diagram.Node {
	byLayer := slices.Clone(nodes)
	slices.SortStableFunc(byLayer, func(a, b diagram.Node) int {
		return cmp.Compare(layerCenter(a, horizontal), layerCenter(b, horizontal))
	})

	var rows [][]diagram.Node
	for _, rank := range partition(byLayer, rankTol, func(n diagram.Node) float64 { return layerCenter(n, horizontal) }) {
		slices.SortStableFunc(rank, func(a, b diagram.Node) int {
			return cmp.Compare(crossCenter(a, horizontal), crossCenter(b, horizontal))
		})
		for _, row := range partition(rank, rowTol, func(n diagram.Node) float64 { return crossCenter(n, horizontal) }) {
			if len(row) >= 2 {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// partition splits sorted nodes wherever consecutive keys differ by more
// than tol.
func partition(sorted []diagram.Node, tol float64, key func(diagram.Node) float64) [][]diagram.Node {
	var out [][]diagram.Node
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || key(sorted[i])-key(sorted[i-1]) > tol {
			out = append(out, slices.Clone(sorted[start:i]))
			start = i
		}
	}
	return out
}

func layerCenter(n diagram.Node, horizontal bool) float64 {
	if horizontal {
		return n.Bounds.CenterX()
	}
	return n.Bounds.CenterY()
}

func crossCenter(n diagram.Node, horizontal bool) float64 {
	if horizontal {
		return n.Bounds.CenterY()
	}
	return n.Bounds.CenterX()
}

func median(vals []float64) float64 {
	s := slices.Clone(vals)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}
