package diagram

import "github.com/matzehuels/flowlayout/pkg/geom"

// Kind is the tagged variant every element type falls into. The layout
// pipeline only ever branches on Kind, never on the concrete Type, except for
// the few role checks exposed as methods on Type.
type Kind int

const (
	// KindSimple is a plain flow node: activity, event or gateway.
	KindSimple Kind = iota
	// KindContainer owns child nodes: pools and expanded sub-processes.
	KindContainer
	// KindBoundaryMarker is attached to the border of a host node.
	KindBoundaryMarker
	// KindSecondary is a decoration linked by association (annotation, data).
	KindSecondary
	// KindStructural is never laid out: lanes, process roots, planes, labels.
	KindStructural
)

var kindNames = map[Kind]string{
	KindSimple:         "simple",
	KindContainer:      "container",
	KindBoundaryMarker: "boundaryMarker",
	KindSecondary:      "secondary",
	KindStructural:     "structural",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Type is the concrete element type of a node.
type Type string

const (
	TypeTask             Type = "task"
	TypeUserTask         Type = "userTask"
	TypeServiceTask      Type = "serviceTask"
	TypeScriptTask       Type = "scriptTask"
	TypeManualTask       Type = "manualTask"
	TypeSendTask         Type = "sendTask"
	TypeReceiveTask      Type = "receiveTask"
	TypeBusinessRuleTask Type = "businessRuleTask"
	TypeCallActivity     Type = "callActivity"
	TypeSubProcess       Type = "subProcess"

	TypeStartEvent             Type = "startEvent"
	TypeEndEvent               Type = "endEvent"
	TypeIntermediateCatchEvent Type = "intermediateCatchEvent"
	TypeIntermediateThrowEvent Type = "intermediateThrowEvent"
	TypeBoundaryEvent          Type = "boundaryEvent"

	TypeExclusiveGateway  Type = "exclusiveGateway"
	TypeParallelGateway   Type = "parallelGateway"
	TypeInclusiveGateway  Type = "inclusiveGateway"
	TypeEventBasedGateway Type = "eventBasedGateway"
	TypeComplexGateway    Type = "complexGateway"

	TypeParticipant   Type = "participant"
	TypeLane          Type = "lane"
	TypeLaneSet       Type = "laneSet"
	TypeProcess       Type = "process"
	TypeCollaboration Type = "collaboration"
	TypePlane         Type = "plane"
	TypeLabel         Type = "label"

	TypeTextAnnotation      Type = "textAnnotation"
	TypeDataObjectReference Type = "dataObjectReference"
	TypeDataStoreReference  Type = "dataStoreReference"
	TypeGroup               Type = "group"
)

var typeKinds = map[Type]Kind{
	TypeTask:             KindSimple,
	TypeUserTask:         KindSimple,
	TypeServiceTask:      KindSimple,
	TypeScriptTask:       KindSimple,
	TypeManualTask:       KindSimple,
	TypeSendTask:         KindSimple,
	TypeReceiveTask:      KindSimple,
	TypeBusinessRuleTask: KindSimple,
	TypeCallActivity:     KindSimple,
	TypeSubProcess:       KindContainer,

	TypeStartEvent:             KindSimple,
	TypeEndEvent:               KindSimple,
	TypeIntermediateCatchEvent: KindSimple,
	TypeIntermediateThrowEvent: KindSimple,
	TypeBoundaryEvent:          KindBoundaryMarker,

	TypeExclusiveGateway:  KindSimple,
	TypeParallelGateway:   KindSimple,
	TypeInclusiveGateway:  KindSimple,
	TypeEventBasedGateway: KindSimple,
	TypeComplexGateway:    KindSimple,

	TypeParticipant:   KindContainer,
	TypeLane:          KindStructural,
	TypeLaneSet:       KindStructural,
	TypeProcess:       KindStructural,
	TypeCollaboration: KindStructural,
	TypePlane:         KindStructural,
	TypeLabel:         KindStructural,

	TypeTextAnnotation:      KindSecondary,
	TypeDataObjectReference: KindSecondary,
	TypeDataStoreReference:  KindSecondary,
	TypeGroup:               KindSecondary,
}

// Valid reports whether t is a known element type.
func (t Type) Valid() bool {
	_, ok := typeKinds[t]
	return ok
}

// Kind returns the tagged variant for t. Unknown types are structural so
// they are never handed to the solver.
func (t Type) Kind() Kind {
	if k, ok := typeKinds[t]; ok {
		return k
	}
	return KindStructural
}

// IsGateway reports whether t is any gateway type.
func (t Type) IsGateway() bool {
	switch t {
	case TypeExclusiveGateway, TypeParallelGateway, TypeInclusiveGateway,
		TypeEventBasedGateway, TypeComplexGateway:
		return true
	}
	return false
}

// IsEntry reports whether t starts a flow.
func (t Type) IsEntry() bool { return t == TypeStartEvent }

// IsPool reports whether t is a pool (participant).
func (t Type) IsPool() bool { return t == TypeParticipant }

// IsAnnotation reports whether t is a text annotation.
func (t Type) IsAnnotation() bool { return t == TypeTextAnnotation }

// IsData reports whether t is a data object or data store reference.
func (t Type) IsData() bool {
	return t == TypeDataObjectReference || t == TypeDataStoreReference
}

// ConnectionKind distinguishes flow semantics of a connection.
type ConnectionKind string

const (
	ConnSequence    ConnectionKind = "sequence"
	ConnMessage     ConnectionKind = "message"
	ConnAssociation ConnectionKind = "association"
)

// Valid reports whether k is a known connection kind.
func (k ConnectionKind) Valid() bool {
	switch k {
	case ConnSequence, ConnMessage, ConnAssociation:
		return true
	}
	return false
}

// Node is a rectangular diagram element.
//
// Bounds are diagram-absolute. Children is maintained by the owning [Diagram]
// from the Parent references and is never serialized.
type Node struct {
	ID       string    `json:"id" yaml:"id"`
	Type     Type      `json:"type" yaml:"type"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds   geom.Rect `json:"bounds" yaml:"bounds"`
	Parent   string    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Host     string    `json:"host,omitempty" yaml:"host,omitempty"`
	Default  string    `json:"default,omitempty" yaml:"default,omitempty"` // default outgoing connection (gateways)
	Children []string  `json:"-" yaml:"-"`
}

// Kind returns the tagged variant of the node's type.
func (n Node) Kind() Kind { return n.Type.Kind() }

// Connection is a directed link between two nodes.
type Connection struct {
	ID        string         `json:"id" yaml:"id"`
	Kind      ConnectionKind `json:"kind" yaml:"kind"`
	Source    string         `json:"source" yaml:"source"`
	Target    string         `json:"target" yaml:"target"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Waypoints []geom.Point   `json:"waypoints,omitempty" yaml:"waypoints,omitempty"`
}

// Degenerate reports whether the waypoint list has fewer than two distinct
// coordinates.
func (c Connection) Degenerate() bool {
	return geom.Distinct(c.Waypoints) < 2
}
