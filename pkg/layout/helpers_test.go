package layout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver/layered"
)

func node(id string, typ diagram.Type, x, y, w, h float64) diagram.Node {
	return diagram.Node{ID: id, Type: typ, Bounds: geom.Rect{X: x, Y: y, W: w, H: h}}
}

func task(id string) diagram.Node { return node(id, diagram.TypeTask, 0, 0, 100, 80) }

func child(n diagram.Node, parent string) diagram.Node {
	n.Parent = parent
	return n
}

func conn(id string, kind diagram.ConnectionKind, src, tgt string) diagram.Connection {
	return diagram.Connection{ID: id, Kind: kind, Source: src, Target: tgt}
}

func seq(id, src, tgt string) diagram.Connection { return conn(id, diagram.ConnSequence, src, tgt) }

func build(t *testing.T, nodes []diagram.Node, conns ...diagram.Connection) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	for _, n := range nodes {
		require.NoError(t, d.AddNode(n))
	}
	for _, c := range conns {
		require.NoError(t, d.AddConnection(c))
	}
	require.NoError(t, d.Validate())
	return d
}

func newEngine() *Engine {
	return New(layered.New(), "layered", DefaultConfig(), nil)
}

func mustNode(t *testing.T, d *diagram.Diagram, id string) diagram.Node {
	t.Helper()
	n, ok := d.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}

func assertOrthogonal(t *testing.T, d *diagram.Diagram) {
	t.Helper()
	for _, c := range d.Connections() {
		require.GreaterOrEqual(t, len(c.Waypoints), 2, "connection %s has no route", c.ID)
		assert.False(t, c.Degenerate(), "connection %s is degenerate", c.ID)
		for i := 1; i < len(c.Waypoints); i++ {
			a, b := c.Waypoints[i-1], c.Waypoints[i]
			assert.True(t, geom.IsOrthogonal(a, b), "connection %s segment %v-%v", c.ID, a, b)
		}
	}
}

type recordingHooks struct {
	starts, solves, completes int
	solveErr, completeErr     error
}

func (h *recordingHooks) OnLayoutStart(context.Context, string, int) { h.starts++ }

func (h *recordingHooks) OnSolveComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	h.solves++
	h.solveErr = err
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.completes++
	h.completeErr = err
}
