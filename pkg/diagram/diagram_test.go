package diagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/geom"
)

func pool(t *testing.T) *Diagram {
	t.Helper()
	d := New()
	require.NoError(t, d.AddNode(Node{ID: "p", Type: TypeParticipant, Bounds: geom.Rect{X: 0, Y: 0, W: 600, H: 250}}))
	require.NoError(t, d.AddNode(Node{ID: "a", Type: TypeTask, Parent: "p", Bounds: geom.Rect{X: 100, Y: 50, W: 100, H: 80}}))
	require.NoError(t, d.AddNode(Node{ID: "m", Type: TypeBoundaryEvent, Parent: "p", Host: "a", Bounds: geom.Rect{X: 150, Y: 112, W: 36, H: 36}}))
	require.NoError(t, d.AddNode(Node{ID: "b", Type: TypeTask, Parent: "p", Bounds: geom.Rect{X: 300, Y: 50, W: 100, H: 80}}))
	require.NoError(t, d.AddConnection(Connection{ID: "f", Kind: ConnSequence, Source: "a", Target: "b"}))
	require.NoError(t, d.Validate())
	return d
}

func TestAddNodeErrors(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.AddNode(Node{Type: TypeTask}), ErrInvalidNodeID)
	require.NoError(t, d.AddNode(Node{ID: "a", Type: TypeTask}))
	assert.ErrorIs(t, d.AddNode(Node{ID: "a", Type: TypeTask}), ErrDuplicateNodeID)
	assert.ErrorIs(t, d.AddNode(Node{ID: "x", Type: "widget"}), ErrUnknownType)
	assert.ErrorIs(t, d.AddConnection(Connection{ID: "c", Kind: "flow"}), ErrUnknownConnectionKind)
	assert.ErrorIs(t, d.AddConnection(Connection{Kind: ConnSequence}), ErrInvalidConnectionID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		conns []Connection
		want  error
	}{
		{
			name:  "unknown parent",
			nodes: []Node{{ID: "a", Type: TypeTask, Parent: "ghost"}},
			want:  ErrUnknownNode,
		},
		{
			name: "containment cycle",
			nodes: []Node{
				{ID: "s1", Type: TypeSubProcess, Parent: "s2"},
				{ID: "s2", Type: TypeSubProcess, Parent: "s1"},
			},
			want: ErrContainmentCycle,
		},
		{
			name:  "marker without host",
			nodes: []Node{{ID: "m", Type: TypeBoundaryEvent}},
			want:  ErrInvalidHost,
		},
		{
			name:  "dangling endpoint",
			nodes: []Node{{ID: "a", Type: TypeTask}},
			conns: []Connection{{ID: "c", Kind: ConnSequence, Source: "a", Target: "b"}},
			want:  ErrUnknownNode,
		},
		{
			name:  "default not owned by gateway",
			nodes: []Node{{ID: "g", Type: TypeExclusiveGateway, Default: "c"}, {ID: "a", Type: TypeTask}},
			conns: []Connection{{ID: "c", Kind: ConnSequence, Source: "a", Target: "g"}},
			want:  ErrUnknownConnection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			for _, n := range tt.nodes {
				require.NoError(t, d.AddNode(n))
			}
			for _, c := range tt.conns {
				require.NoError(t, d.AddConnection(c))
			}
			err := d.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestChildrenFollowModelOrder(t *testing.T) {
	d := New()
	require.NoError(t, d.AddNode(Node{ID: "b", Type: TypeTask, Parent: "p"}))
	require.NoError(t, d.AddNode(Node{ID: "p", Type: TypeParticipant}))
	require.NoError(t, d.AddNode(Node{ID: "a", Type: TypeTask, Parent: "p"}))
	require.NoError(t, d.Validate())

	n, ok := d.Node("p")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, n.Children)
}

func TestMoveNodeCarriesDescendantsAndMarkers(t *testing.T) {
	d := pool(t)
	live, err := d.MoveNode("p", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(10, 20), live.Bounds.Origin())

	a, _ := d.Node("a")
	m, _ := d.Node("m")
	assert.Equal(t, geom.Pt(110, 70), a.Bounds.Origin())
	assert.Equal(t, geom.Pt(160, 132), m.Bounds.Origin())
}

func TestMoveNodeWithoutFollow(t *testing.T) {
	d := pool(t)
	d.FollowHosts = false
	_, err := d.MoveNode("a", 50, 0)
	require.NoError(t, err)
	m, _ := d.Node("m")
	assert.Equal(t, 150.0, m.Bounds.X, "marker must stay put when follow is off")

	_, err = d.MoveNode("ghost", 1, 1)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestResizeAndWaypoints(t *testing.T) {
	d := pool(t)
	live, err := d.ResizeNode("p", geom.Rect{X: 0, Y: 0, W: 800, H: 300})
	require.NoError(t, err)
	assert.Equal(t, 800.0, live.Bounds.W)

	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}
	require.NoError(t, d.SetWaypoints("f", pts))
	pts[1].X = 99
	c, _ := d.Connection("f")
	assert.Equal(t, 10.0, c.Waypoints[1].X, "stored waypoints must not alias the caller's slice")
	assert.ErrorIs(t, d.SetWaypoints("nope", nil), ErrUnknownConnection)
}

func TestLayoutConnectionIsOrthogonal(t *testing.T) {
	d := pool(t)
	require.NoError(t, d.AddNode(Node{ID: "q", Type: TypeParticipant, Bounds: geom.Rect{X: 0, Y: 400, W: 600, H: 200}}))
	require.NoError(t, d.AddNode(Node{ID: "c", Type: TypeTask, Parent: "q", Bounds: geom.Rect{X: 400, Y: 450, W: 100, H: 80}}))
	require.NoError(t, d.AddConnection(Connection{ID: "msg", Kind: ConnMessage, Source: "b", Target: "c"}))
	require.NoError(t, d.AddConnection(Connection{ID: "exc", Kind: ConnSequence, Source: "m", Target: "c"}))
	require.NoError(t, d.AddConnection(Connection{ID: "back", Kind: ConnSequence, Source: "b", Target: "a"}))

	for _, id := range []string{"msg", "exc", "back", "f"} {
		pts, err := d.LayoutConnection(id)
		require.NoError(t, err, id)
		require.GreaterOrEqual(t, len(pts), 2, id)
		for i := 1; i < len(pts); i++ {
			assert.True(t, geom.IsOrthogonal(pts[i-1], pts[i]), "%s segment %d: %v -> %v", id, i, pts[i-1], pts[i])
		}
		c, _ := d.Connection(id)
		assert.Equal(t, pts, c.Waypoints)
	}

	msg, _ := d.Connection("msg")
	assert.Equal(t, geom.Pt(350, 130), msg.Waypoints[0], "message flow leaves the bottom of its source")
	exc, _ := d.Connection("exc")
	assert.Equal(t, geom.Pt(168, 148), exc.Waypoints[0], "marker flow leaves the marker bottom")
}

func TestKinds(t *testing.T) {
	assert.Equal(t, KindContainer, TypeSubProcess.Kind())
	assert.Equal(t, KindBoundaryMarker, TypeBoundaryEvent.Kind())
	assert.Equal(t, KindSecondary, TypeTextAnnotation.Kind())
	assert.Equal(t, KindStructural, TypeLane.Kind())
	assert.Equal(t, KindStructural, Type("bogus").Kind())
	assert.True(t, TypeInclusiveGateway.IsGateway())
	assert.True(t, TypeDataStoreReference.IsData())
	assert.Equal(t, "boundaryMarker", KindBoundaryMarker.String())
}

func TestClone(t *testing.T) {
	d := pool(t)
	c := d.Clone()
	_, err := c.MoveNode("a", 5, 5)
	require.NoError(t, err)
	orig, _ := d.Node("a")
	assert.Equal(t, 100.0, orig.Bounds.X)
	assert.Equal(t, d.NodeCount(), c.NodeCount())
	assert.Equal(t, d.ConnectionCount(), c.ConnectionCount())
}
