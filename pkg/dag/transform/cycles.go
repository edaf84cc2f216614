package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// BreakCycles makes g acyclic by reversing every back edge found by a
// depth-first search started from the sources in insertion order, then from
// any node still unvisited. It returns the reversed edges as they were
// before reversal.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	outgoing := make(map[string][]dag.Edge)
	for _, e := range g.Edges() {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	color := make(map[string]int)
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, e := range outgoing[node] {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e)
		if e.From == e.To {
			continue
		}
		_ = g.AddEdge(dag.Edge{ID: e.ID, From: e.To, To: e.From})
	}
	return backEdges
}
