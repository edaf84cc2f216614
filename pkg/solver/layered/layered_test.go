package layered

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

func task(id string) *solver.Node { return &solver.Node{ID: id, Width: 100, Height: 80} }

func edge(id, src, tgt string) *solver.Edge { return &solver.Edge{ID: id, Source: src, Target: tgt} }

func chain() *solver.Node {
	return &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a"), task("b"), task("c")},
		Edges:    []*solver.Edge{edge("ab", "a", "b"), edge("bc", "b", "c")},
	}
}

func run(t *testing.T, root *solver.Node, dir solver.Direction) *solver.Node {
	t.Helper()
	out, err := New().Layout(context.Background(), root, solver.Options{Direction: dir})
	require.NoError(t, err)
	return out
}

func assertOrthogonal(t *testing.T, root *solver.Node) {
	t.Helper()
	root.Walk(func(n *solver.Node) {
		for _, e := range n.Edges {
			for _, s := range e.Sections {
				pts := s.Points()
				for i := 1; i < len(pts); i++ {
					assert.True(t, geom.IsOrthogonal(pts[i-1], pts[i]), "edge %s segment %v-%v", e.ID, pts[i-1], pts[i])
				}
			}
		}
	})
}

func TestLinearChainDirections(t *testing.T) {
	tests := []struct {
		dir     solver.Direction
		a, b, c geom.Point
		w, h    float64
		start   geom.Point
		end     geom.Point
	}{
		{solver.Right, geom.Pt(0, 0), geom.Pt(160, 0), geom.Pt(320, 0), 420, 80, geom.Pt(100, 40), geom.Pt(160, 40)},
		{solver.Left, geom.Pt(320, 0), geom.Pt(160, 0), geom.Pt(0, 0), 420, 80, geom.Pt(320, 40), geom.Pt(260, 40)},
		{solver.Down, geom.Pt(0, 0), geom.Pt(0, 140), geom.Pt(0, 280), 100, 360, geom.Pt(50, 80), geom.Pt(50, 140)},
		{solver.Up, geom.Pt(0, 280), geom.Pt(0, 140), geom.Pt(0, 0), 100, 360, geom.Pt(50, 280), geom.Pt(50, 220)},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			out := run(t, chain(), tt.dir)
			assert.Equal(t, tt.a, out.Find("a").Rect().Origin())
			assert.Equal(t, tt.b, out.Find("b").Rect().Origin())
			assert.Equal(t, tt.c, out.Find("c").Rect().Origin())
			assert.Equal(t, tt.w, out.Width)
			assert.Equal(t, tt.h, out.Height)

			require.Len(t, out.Edges[0].Sections, 1)
			s := out.Edges[0].Sections[0]
			assert.Equal(t, tt.start, s.Start)
			assert.Equal(t, tt.end, s.End)
			assert.Empty(t, s.Bends)
		})
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	in := chain()
	before := in.Clone()
	out := run(t, in, solver.Right)
	assert.Equal(t, before, in)
	assert.True(t, out.Positioned)
	assert.True(t, out.Find("b").Positioned)
}

func TestForkJoin(t *testing.T) {
	root := &solver.Node{
		ID: "root",
		Children: []*solver.Node{
			{ID: "start", Width: 36, Height: 36},
			{ID: "split", Width: 50, Height: 50},
			task("b"),
			task("c"),
			{ID: "join", Width: 50, Height: 50},
		},
		Edges: []*solver.Edge{
			edge("f1", "start", "split"),
			edge("f2", "split", "b"),
			edge("f3", "split", "c"),
			edge("f4", "b", "join"),
			edge("f5", "c", "join"),
		},
	}
	out := run(t, root, solver.Right)

	b, c := out.Find("b"), out.Find("c")
	assert.Equal(t, b.X, c.X, "parallel branches share a layer")
	assert.Equal(t, 0.0, b.Y)
	assert.Equal(t, 130.0, c.Y)
	assert.Less(t, out.Find("split").X, b.X)
	assert.Greater(t, out.Find("join").X, b.X)
	assertOrthogonal(t, out)

	for _, e := range out.Edges {
		assert.Len(t, e.Sections, 1, e.ID)
	}
}

func TestBackEdgeLoopsBelow(t *testing.T) {
	root := &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a"), task("b"), task("c")},
		Edges:    []*solver.Edge{edge("ab", "a", "b"), edge("bc", "b", "c"), edge("ca", "c", "a")},
	}
	out := run(t, root, solver.Right)

	assert.Equal(t, 320.0, out.Find("c").X)
	require.Len(t, out.Edges[2].Sections, 1)
	s := out.Edges[2].Sections[0]
	assert.Equal(t, geom.Pt(370, 80), s.Start)
	assert.Equal(t, []geom.Point{geom.Pt(370, 105), geom.Pt(50, 105)}, s.Bends)
	assert.Equal(t, geom.Pt(50, 80), s.End)
	assert.Equal(t, 105.0, out.Height)
	assertOrthogonal(t, out)
}

func TestNestedContainer(t *testing.T) {
	root := &solver.Node{
		ID: "root",
		Children: []*solver.Node{
			task("a"),
			{
				ID:      "sub",
				Options: map[string]string{solver.KeyPadding: solver.Uniform(12).String()},
				Children: []*solver.Node{
					{ID: "x", Width: 36, Height: 36},
					{ID: "y", Width: 36, Height: 36},
				},
				Edges: []*solver.Edge{edge("xy", "x", "y")},
			},
		},
		Edges: []*solver.Edge{edge("a-sub", "a", "sub")},
	}
	out := run(t, root, solver.Right)

	sub := out.Find("sub")
	assert.Equal(t, 156.0, sub.Width)
	assert.Equal(t, 60.0, sub.Height)
	assert.Equal(t, geom.Pt(160, 10), sub.Rect().Origin())
	assert.Equal(t, geom.Pt(12, 12), out.Find("x").Rect().Origin())
	assert.Equal(t, geom.Pt(108, 12), out.Find("y").Rect().Origin())
	assert.Equal(t, 316.0, out.Width)

	require.Len(t, sub.Edges[0].Sections, 1)
	assert.Equal(t, geom.Pt(48, 30), sub.Edges[0].Sections[0].Start)
	require.Len(t, out.Edges[0].Sections, 1)
	assert.Equal(t, geom.Pt(160, 40), out.Edges[0].Sections[0].End)
}

func TestCrossHierarchyEdgeConstrainsOnly(t *testing.T) {
	root := &solver.Node{
		ID: "root",
		Children: []*solver.Node{
			task("a"),
			{ID: "sub", Children: []*solver.Node{task("x")}},
		},
		Edges: []*solver.Edge{edge("a-x", "a", "x")},
	}
	out := run(t, root, solver.Right)

	assert.Greater(t, out.Find("sub").X, out.Find("a").X)
	assert.Empty(t, out.Edges[0].Sections)
}

func TestPriorityEdgeStaysStraight(t *testing.T) {
	hot := edge("ac", "a", "c")
	hot.Options = map[string]string{
		solver.KeyPriorityStraightness: solver.HighPriority,
		solver.KeyPriorityDirection:    solver.HighPriority,
	}
	root := &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a"), task("b"), task("c")},
		Edges:    []*solver.Edge{edge("ab", "a", "b"), hot},
	}
	out := run(t, root, solver.Right)

	assert.Equal(t, out.Find("a").Y, out.Find("c").Y)
	assert.Greater(t, out.Find("b").Y, out.Find("c").Y)
	require.Len(t, hot.Sections, 0, "input edge untouched")
	assert.Empty(t, out.Edges[1].Sections[0].Bends)
}

func TestCrossingReduction(t *testing.T) {
	root := &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a"), task("b"), task("x"), task("y")},
		Edges:    []*solver.Edge{edge("ay", "a", "y"), edge("bx", "b", "x")},
	}
	out := run(t, root, solver.Right)

	assert.Less(t, out.Find("y").Y, out.Find("x").Y)
	assertOrthogonal(t, out)
}

func TestLongEdgeBendsThroughDummySlot(t *testing.T) {
	root := &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a"), task("b"), task("c"), task("d")},
		Edges: []*solver.Edge{
			edge("ab", "a", "b"),
			edge("bc", "b", "c"),
			edge("ac", "a", "c"),
			edge("ad", "a", "d"),
		},
	}
	out := run(t, root, solver.Right)
	assertOrthogonal(t, out)
	for _, e := range out.Edges {
		require.Len(t, e.Sections, 1, e.ID)
		s := e.Sections[0]
		src, tgt := out.Find(e.Source), out.Find(e.Target)
		assert.Equal(t, src.X+src.Width, s.Start.X, e.ID)
		assert.Equal(t, tgt.X, s.End.X, e.ID)
	}
}

func TestSelfLoopAndEmpty(t *testing.T) {
	root := &solver.Node{
		ID:       "root",
		Children: []*solver.Node{task("a")},
		Edges:    []*solver.Edge{edge("aa", "a", "a")},
	}
	out := run(t, root, solver.Right)
	assert.Empty(t, out.Edges[0].Sections)
	assert.Equal(t, 100.0, out.Width)

	empty := run(t, &solver.Node{ID: "root"}, solver.Right)
	assert.True(t, empty.Positioned)
}

func TestLayoutErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Layout(ctx, chain(), solver.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New().Layout(context.Background(), chain(), solver.Options{Direction: "sideways"})
	assert.Error(t, err)

	dup := &solver.Node{ID: "root", Children: []*solver.Node{task("a"), task("a")}}
	_, err = New().Layout(context.Background(), dup, solver.Options{})
	assert.Error(t, err)
}

func TestPinnedChildIsReserved(t *testing.T) {
	tests := []struct {
		dir  solver.Direction
		note geom.Rect
		b    geom.Point
	}{
		{solver.Right, geom.Rect{X: 170, Y: 10, W: 80, H: 30}, geom.Pt(160, 90)},
		{solver.Down, geom.Rect{X: 10, Y: 150, W: 80, H: 30}, geom.Pt(140, 140)},
		{solver.Up, geom.Rect{X: 10, Y: 150, W: 80, H: 30}, geom.Pt(140, 140)},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			root := chain()
			note := &solver.Node{ID: "note", X: tt.note.X, Y: tt.note.Y, Width: tt.note.W, Height: tt.note.H, Fixed: true, Positioned: true}
			root.Children = append(root.Children, note)
			root.Edges = append(root.Edges, edge("nb", "note", "b"))

			out := run(t, root, tt.dir)
			assert.Equal(t, tt.note, out.Find("note").Rect(), "pinned node keeps its place")
			assert.Equal(t, tt.b, out.Find("b").Rect().Origin())
			for _, id := range []string{"a", "b", "c"} {
				assert.False(t, out.Find(id).Rect().Overlaps(tt.note), id)
			}
			assert.Empty(t, out.Edges[2].Sections)
			assertOrthogonal(t, out)
		})
	}
}

func TestFrameUnrect(t *testing.T) {
	r := geom.Rect{X: 10, Y: 20, W: 30, H: 40}
	for _, dir := range []solver.Direction{solver.Right, solver.Left, solver.Down, solver.Up} {
		f := frame{dir: dir}
		assert.Equal(t, r, f.unrect(f.rect(r, 200), 200), dir)
	}
}
