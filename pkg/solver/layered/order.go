package layered

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

// orderRows returns the node order of every row after barycenter sweeps.
// Each sweep runs once downward (by parents) and once upward (by children);
// the ordering with the fewest crossings wins, ties going to the earliest.
func orderRows(g *dag.DAG, sweeps int) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, r := range g.RowIDs() {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	best := cloneOrders(orders)
	bestCross := dag.CountCrossings(g, orders)
	maxRow := g.MaxRow()

	for i := 0; i < sweeps && bestCross > 0; i++ {
		for r := 1; r <= maxRow; r++ {
			orders[r] = byBarycenter(orders[r], orders[r-1], g.Parents)
		}
		for r := maxRow - 1; r >= 0; r-- {
			orders[r] = byBarycenter(orders[r], orders[r+1], g.Children)
		}
		if c := dag.CountCrossings(g, orders); c < bestCross {
			best, bestCross = cloneOrders(orders), c
		}
	}
	return best
}

// byBarycenter sorts row by the mean position of each node's neighbors in
// the adjacent row. Nodes without neighbors there keep their own index.
func byBarycenter(row, adjacent []string, neighbors func(string) []string) []string {
	pos := dag.PosMap(adjacent)
	keys := make(map[string]float64, len(row))
	for i, id := range row {
		sum, n := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			keys[id] = float64(i)
			continue
		}
		keys[id] = sum / float64(n)
	}
	out := slices.Clone(row)
	slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(keys[a], keys[b]) })
	return out
}

// promote moves the members of priority to the front of every row, keeping
// relative order on both sides.
func promote(orders map[int][]string, priority map[string]bool) {
	if len(priority) == 0 {
		return
	}
	for r, row := range orders {
		front := make([]string, 0, len(row))
		var back []string
		for _, id := range row {
			if priority[id] {
				front = append(front, id)
			} else {
				back = append(back, id)
			}
		}
		orders[r] = append(front, back...)
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := maps.Clone(orders)
	for r, row := range out {
		out[r] = slices.Clone(row)
	}
	return out
}
