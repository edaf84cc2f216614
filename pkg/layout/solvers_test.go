package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
	"github.com/matzehuels/flowlayout/pkg/solver/graphviz"
	"github.com/matzehuels/flowlayout/pkg/solver/layered"
)

func collaboration(t *testing.T) *diagram.Diagram {
	return build(t,
		[]diagram.Node{
			node("p", diagram.TypeParticipant, 0, 0, 10, 10),
			child(node("start", diagram.TypeStartEvent, 0, 0, 36, 36), "p"),
			child(task("t1"), "p"),
			child(node("sub", diagram.TypeSubProcess, 0, 0, 100, 80), "p"),
			child(node("s1", diagram.TypeStartEvent, 0, 0, 36, 36), "sub"),
			child(task("s2"), "sub"),
			child(task("t2"), "p"),
			node("q", diagram.TypeParticipant, 0, 500, 10, 10),
			child(task("t3"), "q"),
		},
		seq("f1", "start", "t1"),
		seq("f2", "t1", "sub"),
		seq("f3", "s1", "s2"),
		seq("f4", "sub", "t2"),
		seq("f5", "t2", "t1"),
		conn("m1", diagram.ConnMessage, "t2", "t3"),
	)
}

// assertPadded checks that every primary node sits inside its nearest
// primary container with at least pad on every side, give or take slack.
func assertPadded(t *testing.T, d *diagram.Diagram, pad, slack float64) {
	t.Helper()
	for _, n := range d.Nodes() {
		if !isPrimary(n) {
			continue
		}
		p := n.Parent
		for p != "" && !isPrimary(mustNode(t, d, p)) {
			p = mustNode(t, d, p).Parent
		}
		if p == "" {
			continue
		}
		outer := mustNode(t, d, p).Bounds
		inner := geom.Rect{X: outer.X + pad, Y: outer.Y + pad, W: outer.W - 2*pad, H: outer.H - 2*pad}
		assert.True(t, inner.ContainsRect(n.Bounds, slack), "%s %v is not padded inside %s %v", n.ID, n.Bounds, p, outer)
	}
}

func TestSolverInvariants(t *testing.T) {
	// Row alignment may shift graphviz nodes along the cross axis by up to
	// the same-row threshold; layered rows are exact.
	tests := []struct {
		name   string
		solver solver.Solver
		slack  float64
	}{
		{"layered", layered.New(), 0.5},
		{"graphviz", graphviz.New(), DefaultConfig().SameRowThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiny := &solver.Node{ID: "root", Children: []*solver.Node{{ID: "x", Width: 10, Height: 10}}}
			if _, err := tt.solver.Layout(context.Background(), tiny, solver.DefaultOptions()); err != nil {
				t.Skipf("%s runtime unavailable: %v", tt.name, err)
			}
			e := New(tt.solver, tt.name, DefaultConfig(), nil)
			pad := DefaultConfig().ContainerPadding
			band := pad + DefaultConfig().PoolLabelBand

			d := collaboration(t)
			_, err := e.Layout(context.Background(), d, Options{})
			require.NoError(t, err)
			assertOrthogonal(t, d)
			assertPadded(t, d, pad, tt.slack)

			first := d.Clone()
			_, err = e.Layout(context.Background(), d, Options{})
			require.NoError(t, err)
			for _, n := range first.Nodes() {
				got := mustNode(t, d, n.ID).Bounds
				assert.InDelta(t, n.Bounds.X, got.X, 2, n.ID)
				assert.InDelta(t, n.Bounds.Y, got.Y, 2, n.ID)
				assert.InDelta(t, n.Bounds.W, got.W, 2, n.ID)
				assert.InDelta(t, n.Bounds.H, got.H, 2, n.ID)
			}

			_, err = e.Layout(context.Background(), d, Options{ScopeID: "p"})
			require.NoError(t, err)
			assertOrthogonal(t, d)
			assertPadded(t, d, pad, tt.slack)
			pool := mustNode(t, d, "p").Bounds
			for _, id := range []string{"start", "t1", "sub", "t2"} {
				b := mustNode(t, d, id).Bounds
				assert.GreaterOrEqual(t, b.X-pool.X, band-0.5, "%s inside the label band", id)
				assert.GreaterOrEqual(t, b.Y-pool.Y, pad-tt.slack, "%s top padding", id)
			}
		})
	}
}
