// Package dag provides the row-based directed graph used by the in-process
// layered solver.
//
// # Overview
//
// Layered (Sugiyama-style) drawing assigns every node to a row, splits edges
// that skip rows with dummy nodes, and then orders each row to reduce edge
// crossings. This package holds the graph for those phases: nodes carry a
// row, edges may only join consecutive rows once normalized, and all
// iteration follows insertion order so repeated layouts of the same input
// are identical.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "start", Row: 0})
//	g.AddNode(dag.Node{ID: "review", Row: 1})
//	g.AddEdge(dag.Edge{ID: "f1", From: "start", To: "review"})
//
// Query the structure with [DAG.Children], [DAG.Parents] and
// [DAG.NodesInRow]. [DAG.Validate] checks the consecutive-row and acyclic
// constraints.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a Fenwick
// tree in O(E log V), cheap enough to evaluate after every ordering sweep.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// # Related Packages
//
// The [transform] subpackage reverses cycles, assigns rows and subdivides
// long edges.
//
// [transform]: github.com/matzehuels/flowlayout/pkg/dag/transform
package dag
