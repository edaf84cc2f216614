package transform

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// [dag.NodeKindDummy] nodes, one per skipped row:
//
//	Before: start (row 0) → end (row 3)
//	After:  start → f1_dummy_1 → f1_dummy_2 → end
//
// Each dummy records the ID of the edge it splits in EdgeID, and the
// returned map lists the dummy IDs of each split edge in row order. Edges
// pointing upward or within a row are left alone; run [AssignLayers] first.
//
// Dummy IDs have the form "<edge>_dummy_<row>", with a numeric suffix on
// collision.
func Subdivide(g *dag.DAG) map[string][]string {
	gen := newIDGen(g.Nodes())
	chains := make(map[string][]string)

	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		toRemove = append(toRemove, e)
		base := e.ID
		if base == "" {
			base = e.From + "_" + e.To
		}
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(base, row)
			if err := g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindDummy, EdgeID: e.ID}); err != nil {
				panic(err)
			}
			if err := g.AddEdge(dag.Edge{ID: e.ID, From: prevID, To: id}); err != nil {
				panic(err)
			}
			chains[e.ID] = append(chains[e.ID], id)
			prevID = id
		}
		if err := g.AddEdge(dag.Edge{ID: e.ID, From: prevID, To: dst.ID}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e)
	}
	return chains
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_dummy_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
