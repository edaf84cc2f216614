package solver

import (
	"fmt"
	"strconv"
	"strings"
)

// Option keys understood by solvers. Global keys go in [Options.Map];
// KeyPadding is set per container and the priority keys per edge.
const (
	KeyAlgorithm            = "algorithm"
	KeyDirection            = "direction"
	KeyNodeSpacing          = "nodeSpacing"
	KeyLayerSpacing         = "layerSpacing"
	KeyEdgeRouting          = "edgeRouting"
	KeyCrossingMinimization = "crossingMinimizationStrategy"
	KeyPadding              = "padding"
	KeyPriorityStraightness = "priority.straightness"
	KeyPriorityDirection    = "priority.direction"
)

// Well-known option values.
const (
	AlgorithmLayered    = "layered"
	RoutingOrthogonal   = "ORTHOGONAL"
	CrossingLayerSweep  = "LAYER_SWEEP"
	HighPriority        = "10"
	DefaultNodeSpacing  = 50.0
	DefaultLayerSpacing = 60.0
)

// Direction is the primary flow direction of a layered layout.
type Direction string

const (
	Right Direction = "RIGHT"
	Down  Direction = "DOWN"
	Left  Direction = "LEFT"
	Up    Direction = "UP"
)

// ParseDirection parses a direction name case-insensitively. The empty
// string yields Right.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case "", Right:
		return Right, nil
	case Down:
		return Down, nil
	case Left:
		return Left, nil
	case Up:
		return Up, nil
	}
	return "", fmt.Errorf("invalid direction %q (want RIGHT, DOWN, LEFT or UP)", s)
}

// Horizontal reports whether layers advance along the x axis.
func (d Direction) Horizontal() bool { return d == Right || d == Left || d == "" }

// Options are the global solver settings for one invocation.
type Options struct {
	Algorithm            string
	Direction            Direction
	NodeSpacing          float64
	LayerSpacing         float64
	EdgeRouting          string
	CrossingMinimization string
}

// DefaultOptions returns a layered, left-to-right, orthogonal configuration.
func DefaultOptions() Options {
	return Options{
		Algorithm:            AlgorithmLayered,
		Direction:            Right,
		NodeSpacing:          DefaultNodeSpacing,
		LayerSpacing:         DefaultLayerSpacing,
		EdgeRouting:          RoutingOrthogonal,
		CrossingMinimization: CrossingLayerSweep,
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Algorithm == "" {
		o.Algorithm = d.Algorithm
	}
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = d.NodeSpacing
	}
	if o.LayerSpacing <= 0 {
		o.LayerSpacing = d.LayerSpacing
	}
	if o.EdgeRouting == "" {
		o.EdgeRouting = d.EdgeRouting
	}
	if o.CrossingMinimization == "" {
		o.CrossingMinimization = d.CrossingMinimization
	}
	return o
}

// Map returns the flat option map handed to the solver.
func (o Options) Map() map[string]string {
	return map[string]string{
		KeyAlgorithm:            o.Algorithm,
		KeyDirection:            string(o.Direction),
		KeyNodeSpacing:          formatFloat(o.NodeSpacing),
		KeyLayerSpacing:         formatFloat(o.LayerSpacing),
		KeyEdgeRouting:          o.EdgeRouting,
		KeyCrossingMinimization: o.CrossingMinimization,
	}
}

// IsPriority reports whether an edge carries happy-path priority hints.
func (e *Edge) IsPriority() bool {
	return e.Options[KeyPriorityStraightness] != "" || e.Options[KeyPriorityDirection] != ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
