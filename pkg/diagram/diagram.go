package diagram

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownType is returned by [Diagram.AddNode] for element types the
	// model does not recognize.
	ErrUnknownType = errors.New("unknown element type")

	// ErrInvalidConnectionID is returned by [Diagram.AddConnection] when the
	// connection ID is empty.
	ErrInvalidConnectionID = errors.New("connection ID must not be empty")

	// ErrDuplicateConnectionID is returned by [Diagram.AddConnection] when a
	// connection with the same ID already exists.
	ErrDuplicateConnectionID = errors.New("duplicate connection ID")

	// ErrUnknownConnectionKind is returned by [Diagram.AddConnection] for
	// connection kinds other than sequence, message and association.
	ErrUnknownConnectionKind = errors.New("unknown connection kind")

	// ErrUnknownNode is returned when an operation references a node ID that
	// does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownConnection is returned when an operation references a
	// connection ID that does not exist.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrContainmentCycle is returned by [Diagram.Validate] when parent
	// references form a cycle.
	ErrContainmentCycle = errors.New("containment contains a cycle")

	// ErrInvalidHost is returned by [Diagram.Validate] when a boundary marker
	// has no host, an unknown host, or is hosted by another marker.
	ErrInvalidHost = errors.New("invalid boundary host")
)

// Diagram is an arena of nodes and connections addressed by ID.
//
// Nodes and connections keep the order in which they were added (model
// order). Parent/child adjacency is derived from each node's Parent field, so
// children may be added before their parent.
//
// The zero value is not usable; create diagrams with [New].
// Diagram is not safe for concurrent use.
type Diagram struct {
	nodes     map[string]*Node
	order     []string
	children  map[string][]string
	conns     map[string]*Connection
	connOrder []string

	// FollowHosts makes MoveNode carry boundary markers along with their
	// host. Turning it off simulates a model whose marker-follow is unreliable.
	FollowHosts bool
}

// New creates an empty diagram with marker-follow enabled.
func New() *Diagram {
	return &Diagram{
		nodes:       make(map[string]*Node),
		children:    make(map[string][]string),
		conns:       make(map[string]*Connection),
		FollowHosts: true,
	}
}

// AddNode adds a node. Parent and host references are checked by Validate,
// not here.
func (d *Diagram) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q on %s", ErrUnknownType, n.Type, n.ID)
	}
	n.Children = nil
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	if n.Parent != "" {
		d.children[n.Parent] = append(d.children[n.Parent], n.ID)
	}
	return nil
}

// AddConnection adds a connection. Endpoints are checked by Validate.
func (d *Diagram) AddConnection(c Connection) error {
	if c.ID == "" {
		return ErrInvalidConnectionID
	}
	if _, exists := d.conns[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateConnectionID, c.ID)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: %q on %s", ErrUnknownConnectionKind, c.Kind, c.ID)
	}
	c.Waypoints = slices.Clone(c.Waypoints)
	d.conns[c.ID] = &c
	d.connOrder = append(d.connOrder, c.ID)
	return nil
}

// Validate checks referential integrity: every parent, host, connection
// endpoint and gateway default exists, boundary markers have a non-marker
// host, and the containment relation is a forest.
func (d *Diagram) Validate() error {
	for _, id := range d.order {
		n := d.nodes[id]
		if n.Parent != "" {
			if _, ok := d.nodes[n.Parent]; !ok {
				return fmt.Errorf("%w: parent %s of %s", ErrUnknownNode, n.Parent, id)
			}
		}
		if n.Kind() == KindBoundaryMarker {
			h, ok := d.nodes[n.Host]
			if !ok || h.Kind() == KindBoundaryMarker {
				return fmt.Errorf("%w: %s hosted by %q", ErrInvalidHost, id, n.Host)
			}
		}
		if n.Default != "" {
			c, ok := d.conns[n.Default]
			if !ok || c.Source != id {
				return fmt.Errorf("%w: default %s of %s", ErrUnknownConnection, n.Default, id)
			}
		}
	}
	for _, id := range d.connOrder {
		c := d.conns[id]
		if _, ok := d.nodes[c.Source]; !ok {
			return fmt.Errorf("%w: source %s of %s", ErrUnknownNode, c.Source, id)
		}
		if _, ok := d.nodes[c.Target]; !ok {
			return fmt.Errorf("%w: target %s of %s", ErrUnknownNode, c.Target, id)
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(d.nodes))
	var visit func(string) error
	visit = func(id string) error {
		color[id] = gray
		for _, c := range d.children[id] {
			switch color[c] {
			case gray:
				return fmt.Errorf("%w: through %s", ErrContainmentCycle, c)
			case white:
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}
	for _, id := range d.order {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Node returns a copy of the node with the given ID.
func (d *Diagram) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return d.snapshot(n), true
}

// Connection returns a copy of the connection with the given ID.
func (d *Diagram) Connection(id string) (Connection, bool) {
	c, ok := d.conns[id]
	if !ok {
		return Connection{}, false
	}
	return copyConnection(c), true
}

// Nodes returns copies of all nodes in model order.
func (d *Diagram) Nodes() []Node {
	out := make([]Node, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.snapshot(d.nodes[id]))
	}
	return out
}

// Connections returns copies of all connections in model order.
func (d *Diagram) Connections() []Connection {
	out := make([]Connection, 0, len(d.connOrder))
	for _, id := range d.connOrder {
		out = append(out, copyConnection(d.conns[id]))
	}
	return out
}

// Children returns the IDs of the direct children of id in model order.
func (d *Diagram) Children(id string) []string {
	return slices.Clone(d.children[id])
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// ConnectionCount returns the number of connections.
func (d *Diagram) ConnectionCount() int { return len(d.conns) }

// Clone returns a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	out := New()
	out.FollowHosts = d.FollowHosts
	for _, id := range d.order {
		_ = out.AddNode(*d.nodes[id])
	}
	for _, id := range d.connOrder {
		_ = out.AddConnection(*d.conns[id])
	}
	return out
}

func (d *Diagram) snapshot(n *Node) Node {
	out := *n
	out.Children = slices.Clone(d.children[n.ID])
	return out
}

func copyConnection(c *Connection) Connection {
	out := *c
	out.Waypoints = slices.Clone(c.Waypoints)
	return out
}
