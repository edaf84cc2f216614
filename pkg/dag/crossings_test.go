package dag

import "testing"

func TestCountLayerCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id, Row: 0})
	}
	for _, id := range []string{"x", "y", "z"} {
		_ = g.AddNode(Node{ID: id, Row: 1})
	}
	_ = g.AddEdge(Edge{ID: "e1", From: "a", To: "z"})
	_ = g.AddEdge(Edge{ID: "e2", From: "b", To: "y"})
	_ = g.AddEdge(Edge{ID: "e3", From: "c", To: "x"})

	tests := []struct {
		name         string
		upper, lower []string
		want         int
	}{
		{"fully reversed", []string{"a", "b", "c"}, []string{"x", "y", "z"}, 3},
		{"aligned", []string{"a", "b", "c"}, []string{"z", "y", "x"}, 0},
		{"one swap", []string{"b", "a", "c"}, []string{"z", "y", "x"}, 1},
		{"empty lower", []string{"a"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountLayerCrossings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossingsSkipsMissingRows(t *testing.T) {
	g := New()
	for _, n := range []Node{{ID: "a"}, {ID: "b"}, {ID: "x", Row: 1}, {ID: "y", Row: 1}, {ID: "q", Row: 3}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(Edge{ID: "e1", From: "a", To: "y"})
	_ = g.AddEdge(Edge{ID: "e2", From: "b", To: "x"})

	orders := map[int][]string{0: {"a", "b"}, 1: {"x", "y"}, 3: {"q"}}
	if got := CountCrossings(g, orders); got != 1 {
		t.Errorf("CountCrossings = %d, want 1", got)
	}
}
