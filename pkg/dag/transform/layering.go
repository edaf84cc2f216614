package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// AssignLayers places every node one row below its deepest parent, so
// sources sit on row 0 and every edge points downward. Existing rows are
// overwritten.
//
// The graph must be acyclic; run [BreakCycles] first. A node reached again
// while its own depth is still being computed is treated as a source.
func AssignLayers(g *dag.DAG) {
	rows := make(map[string]int, g.NodeCount())
	active := make(map[string]bool)

	var depth func(string) int
	depth = func(id string) int {
		if r, ok := rows[id]; ok {
			return r
		}
		if active[id] {
			return 0
		}
		active[id] = true
		r := 0
		for _, p := range g.Parents(id) {
			r = max(r, depth(p)+1)
		}
		delete(active, id)
		rows[id] = r
		return r
	}
	for _, n := range g.Nodes() {
		depth(n.ID)
	}
	g.SetRows(rows)
}
