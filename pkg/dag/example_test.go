package dag_test

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

func ExampleDAG_basic() {
	// A three-step process: start → review → end
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "start", Row: 0})
	_ = g.AddNode(dag.Node{ID: "review", Row: 1})
	_ = g.AddNode(dag.Node{ID: "end", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "start", To: "review"})
	_ = g.AddEdge(dag.Edge{From: "review", To: "end"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
}

func ExampleDAG_traversal() {
	// A parallel split fanning out to two tasks
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "split", Row: 0})
	_ = g.AddNode(dag.Node{ID: "ship", Row: 1})
	_ = g.AddNode(dag.Node{ID: "bill", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "split", To: "ship"})
	_ = g.AddEdge(dag.Edge{From: "split", To: "bill"})

	fmt.Println("Children of split:", g.Children("split"))
	fmt.Println("Parents of ship:", g.Parents("ship"))
	fmt.Println("Out-degree of split:", g.OutDegree("split"))
	// Output:
	// Children of split: [ship bill]
	// Parents of ship: [split]
	// Out-degree of split: 2
}

func ExampleDAG_Sources() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "order", Row: 0})
	_ = g.AddNode(dag.Node{ID: "timer", Row: 0})
	_ = g.AddNode(dag.Node{ID: "join", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "order", To: "join"})
	_ = g.AddEdge(dag.Edge{From: "timer", To: "join"})

	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// Sources: [order timer]
}

func ExampleNode_dummy() {
	regular := dag.Node{ID: "task", Kind: dag.NodeKindRegular}
	dummy := dag.Node{ID: "f1_dummy_1", Kind: dag.NodeKindDummy, EdgeID: "f1"}

	fmt.Println("Regular is dummy:", regular.IsDummy())
	fmt.Println("Dummy is dummy:", dummy.IsDummy())
	fmt.Println("Dummy edge:", dummy.EdgeID)
	// Output:
	// Regular is dummy: false
	// Dummy is dummy: true
	// Dummy edge: f1
}

func ExampleCountLayerCrossings() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})

	// a→y and b→x cross while a is above b
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	upper := []string{"a", "b"}
	lower := []string{"x", "y"}
	fmt.Println("Crossings:", dag.CountLayerCrossings(g, upper, lower))

	upper = []string{"b", "a"}
	fmt.Println("After reorder:", dag.CountLayerCrossings(g, upper, lower))
	// Output:
	// Crossings: 1
	// After reorder: 0
}
