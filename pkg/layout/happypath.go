package layout

import "github.com/matzehuels/flowlayout/pkg/diagram"

// HappyPath returns the IDs of the sequence flows on the main path of m.
//
// The walk starts at every start event; a diagram without one starts at
// every primary node that has outgoing but no incoming sequence flows. At
// each step it follows a gateway's default flow when it has one, otherwise
// the node's first outgoing sequence flow in model order, and stops at a
// node without outgoing flows or one it has already visited.
func HappyPath(m Model) map[string]bool {
	return newIndex(m).happyPath()
}

func (x *index) happyPath() map[string]bool {
	path := make(map[string]bool)
	visited := make(map[string]bool)
	for _, id := range x.entries() {
		for cur := id; cur != "" && !visited[cur]; {
			visited[cur] = true
			next, ok := x.mainOutgoing(x.nodes[cur])
			if !ok {
				break
			}
			path[next.ID] = true
			cur = next.Target
		}
	}
	return path
}

func (x *index) entries() []string {
	var ids []string
	for _, id := range x.order {
		if x.nodes[id].Type.IsEntry() {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	incoming := make(map[string]bool)
	for _, c := range x.conns {
		if c.Kind == diagram.ConnSequence {
			incoming[c.Target] = true
		}
	}
	for _, id := range x.order {
		if isPrimary(x.nodes[id]) && !incoming[id] && len(x.out[id]) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (x *index) mainOutgoing(n diagram.Node) (diagram.Connection, bool) {
	out := x.out[n.ID]
	if len(out) == 0 {
		return diagram.Connection{}, false
	}
	if n.Type.IsGateway() && n.Default != "" {
		for _, c := range out {
			if c.ID == n.Default {
				return c, true
			}
		}
	}
	return out[0], true
}
