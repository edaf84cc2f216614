// Package pipeline runs the layout engine over diagram documents.
//
// It is shared by the CLI and the HTTP server so both resolve options,
// pick a solver and cache solver results the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	defer runner.Close()
//
//	res, err := runner.Run(ctx, d, pipeline.Options{Direction: "RIGHT"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Layout.CrossingFlows)
//
// Set ScopeID to lay out the contents of one pool or sub-process, or
// SubsetIDs to lay out a selection and leave everything else in place.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// Solver names.
const (
	SolverLayered  = "layered"
	SolverGraphviz = "graphviz"
)

// DefaultSolver is used when Options.Solver is empty.
const DefaultSolver = SolverLayered

// ValidSolvers is the set of supported solver names.
var ValidSolvers = map[string]bool{
	SolverLayered:  true,
	SolverGraphviz: true,
}

// ValidateSolver checks that a solver name is supported.
func ValidateSolver(name string) error {
	if !ValidSolvers[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid solver: %q (must be one of: layered, graphviz)", name)
	}
	return nil
}

// Options configure one pipeline run. They decode from API requests.
type Options struct {
	Direction    string  `json:"direction,omitempty"`
	NodeSpacing  float64 `json:"nodeSpacing,omitempty"`
	LayerSpacing float64 `json:"layerSpacing,omitempty"`

	// ScopeID and SubsetIDs select a scoped or a subset layout. At most one
	// may be set.
	ScopeID        string   `json:"scopeElementId,omitempty"`
	SubsetIDs      []string `json:"subset,omitempty"`
	PinDecorations bool     `json:"pinDecorations,omitempty"`
	SkipHappyPath  bool     `json:"skipHappyPath,omitempty"`

	Solver string `json:"solver,omitempty"`

	// Runtime options (not serialized)
	ConfigPath string         `json:"-"`
	Config     *layout.Config `json:"-"`
	Logger     *log.Logger    `json:"-"`

	validated bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	Diagram *diagram.Diagram
	Layout  *layout.Result
	Stats   Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes       int
	Connections int
	LayoutTime  time.Duration
}

// ValidateAndSetDefaults checks the options and fills in defaults. The
// layout config is loaded from ConfigPath when Config is nil. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Solver == "" {
		o.Solver = DefaultSolver
	}
	if err := ValidateSolver(o.Solver); err != nil {
		return err
	}
	dir, err := solver.ParseDirection(o.Direction)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid direction")
	}
	o.Direction = string(dir)
	if o.NodeSpacing < 0 || o.LayerSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative")
	}
	if o.ScopeID != "" && len(o.SubsetIDs) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scope and subset are mutually exclusive")
	}
	if o.Config == nil {
		cfg := layout.DefaultConfig()
		if o.ConfigPath != "" {
			if cfg, err = layout.LoadConfig(o.ConfigPath); err != nil {
				return err
			}
		}
		o.Config = &cfg
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// IsSubset reports whether the options select a subset layout.
func (o *Options) IsSubset() bool { return len(o.SubsetIDs) > 0 }

// LayoutOptions returns the engine options of a full or scoped run.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction:     solver.Direction(o.Direction),
		NodeSpacing:   o.NodeSpacing,
		LayerSpacing:  o.LayerSpacing,
		ScopeID:       o.ScopeID,
		SkipHappyPath: o.SkipHappyPath,
	}
}

// SubsetOptions returns the engine options of a subset run.
func (o *Options) SubsetOptions() layout.SubsetOptions {
	return layout.SubsetOptions{
		IDs:            o.SubsetIDs,
		Direction:      solver.Direction(o.Direction),
		NodeSpacing:    o.NodeSpacing,
		LayerSpacing:   o.LayerSpacing,
		PinDecorations: o.PinDecorations,
	}
}

func (o *Options) String() string {
	switch {
	case o.IsSubset():
		return fmt.Sprintf("subset of %d", len(o.SubsetIDs))
	case o.ScopeID != "":
		return "scope " + o.ScopeID
	}
	return "full"
}
