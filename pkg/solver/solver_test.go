package solver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

func sampleTree() *Node {
	return &Node{
		ID: "root",
		Children: []*Node{
			{ID: "a", Width: 100, Height: 80},
			{ID: "sub", Options: map[string]string{KeyPadding: Uniform(12).String()}, Children: []*Node{
				{ID: "x", Width: 36, Height: 36},
			}},
		},
		Edges: []*Edge{{ID: "e", Source: "a", Target: "sub", Sections: []Section{{Start: geom.Pt(1, 2), End: geom.Pt(3, 4)}}}},
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Right, false},
		{"down", Down, false},
		{" LEFT ", Left, false},
		{"Up", Up, false},
		{"diagonal", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.True(t, Left.Horizontal())
	assert.False(t, Up.Horizontal())
}

func TestOptionsMap(t *testing.T) {
	m := Options{Direction: Down, NodeSpacing: 40}.WithDefaults().Map()
	assert.Equal(t, "layered", m[KeyAlgorithm])
	assert.Equal(t, "DOWN", m[KeyDirection])
	assert.Equal(t, "40", m[KeyNodeSpacing])
	assert.Equal(t, "60", m[KeyLayerSpacing])
	assert.Equal(t, RoutingOrthogonal, m[KeyEdgeRouting])
	assert.Equal(t, CrossingLayerSweep, m[KeyCrossingMinimization])
}

func TestPadding(t *testing.T) {
	p := Padding{Top: 12, Left: 42, Bottom: 12, Right: 12.5}
	assert.Equal(t, "[top=12,left=42,bottom=12,right=12.5]", p.String())

	back, err := ParsePadding(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, back)
	assert.Equal(t, 42.0, back.Max())

	zero, err := ParsePadding("")
	require.NoError(t, err)
	assert.Equal(t, Padding{}, zero)

	_, err = ParsePadding("[top=1,middle=2]")
	assert.Error(t, err)
	_, err = ParsePadding("[top]")
	assert.Error(t, err)

	assert.Equal(t, Uniform(12), PaddingOf(sampleTree().Find("sub")))
}

func TestTreeHelpers(t *testing.T) {
	root := sampleTree()
	assert.Equal(t, 4, root.Count())
	assert.NotNil(t, root.Find("x"))
	assert.Nil(t, root.Find("missing"))
	assert.True(t, root.Find("sub").IsContainer())

	clone := root.Clone()
	clone.Find("x").Width = 999
	clone.Edges[0].Sections[0].Start.X = 999
	assert.Equal(t, 36.0, root.Find("x").Width)
	assert.Equal(t, 1.0, root.Edges[0].Sections[0].Start.X)

	pts := root.Edges[0].Sections[0].Points()
	assert.Equal(t, []geom.Point{geom.Pt(1, 2), geom.Pt(3, 4)}, pts)
}

func TestCachedSolver(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(filepath.Join(t.TempDir(), "c"))
	require.NoError(t, err)

	calls := 0
	inner := Func(func(ctx context.Context, root *Node, opts Options) (*Node, error) {
		calls++
		out := root.Clone()
		out.Walk(func(n *Node) { n.X, n.Positioned = 7, true })
		return out, nil
	})
	cs := NewCached(inner, "test", fc, nil)
	opts := DefaultOptions()

	first, err := cs.Layout(ctx, sampleTree(), opts)
	require.NoError(t, err)
	second, err := cs.Layout(ctx, sampleTree(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call should be served from cache")
	assert.Equal(t, first.Find("x").X, second.Find("x").X)
	assert.True(t, second.Find("x").Positioned)

	opts.Direction = Down
	_, err = cs.Layout(ctx, sampleTree(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "different options must miss")
}

func TestCachedSolverPropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	cs := NewCached(Func(func(context.Context, *Node, Options) (*Node, error) {
		return nil, boom
	}), "test", nil, nil)
	_, err := cs.Layout(context.Background(), sampleTree(), DefaultOptions())
	assert.ErrorIs(t, err, boom)
}
