// Package layout is the automatic-layout engine for process diagrams.
//
// An [Engine] builds a hierarchical graph from the diagram, hands it to a
// [solver.Solver], and then runs a fixed sequence of geometric passes over
// the model:
//
//  1. positions: write solver positions back as absolute coordinates
//  2. sizes: resize expanded containers to their solved size
//  3. pinned: move subset members off pinned decorations
//  4. markers: reattach boundary markers left behind by their host
//  5. alignment: snap near-equal row centers within each rank
//  6. lanes: fit lanes around the nodes they own
//  7. decorations: place annotations and data references
//  8. routes: write waypoints from solver sections or fallback paths
//  9. correction: straighten near-diagonal segments
//  10. crossings: report intersecting connections (diagnostic only)
//
// The main path through the diagram (see [HappyPath]) is marked with high
// priority so the solver keeps it on one row.
//
// # Errors
//
// Invalid scopes and subsets are reported before anything is mutated.
// Solver failures are returned with code SOLVER_FAILED; the model is not
// touched in that case. Failures in later passes leave earlier mutations
// in place; the engine does not roll back.
//
// An Engine holds no per-run state and may be shared, but a Model must not
// be laid out by two runs at once.
package layout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// Options control a full or scoped layout.
type Options struct {
	// Direction of flow; empty means RIGHT.
	Direction solver.Direction `json:"direction,omitempty"`
	// NodeSpacing and LayerSpacing override Config when positive.
	NodeSpacing  float64 `json:"nodeSpacing,omitempty"`
	LayerSpacing float64 `json:"layerSpacing,omitempty"`
	// ScopeID restricts the layout to the contents of one pool or expanded
	// sub-process. The container keeps its position and is resized.
	ScopeID string `json:"scopeElementId,omitempty"`
	// SkipHappyPath disables main-path priority hints.
	SkipHappyPath bool `json:"skipHappyPath,omitempty"`
}

// SubsetOptions control a subset layout.
type SubsetOptions struct {
	// IDs are the nodes to lay out. Their connections among each other are
	// routed; the rest of the diagram stays where it is.
	IDs          []string         `json:"ids"`
	Direction    solver.Direction `json:"direction,omitempty"`
	NodeSpacing  float64          `json:"nodeSpacing,omitempty"`
	LayerSpacing float64          `json:"layerSpacing,omitempty"`
	// PinDecorations adds decorations associated with the subset to the
	// solver graph as fixed context: routed around, never moved.
	PinDecorations bool `json:"pinDecorations,omitempty"`
}

// Result is the diagnostic outcome of a run.
type Result struct {
	RunID             string         `json:"runId"`
	CrossingFlows     int            `json:"crossingFlows,omitempty"`
	CrossingFlowPairs []CrossingPair `json:"crossingFlowPairs,omitempty"`
	Stats             Stats          `json:"stats"`
}

// Stats counts what a run changed.
type Stats struct {
	Nodes         int           `json:"nodes"`
	Edges         int           `json:"edges"`
	Moved         int           `json:"moved"`
	Resized       int           `json:"resized"`
	StrandedFixed int           `json:"strandedFixed"`
	Aligned       int           `json:"aligned"`
	Placed        int           `json:"placed"`
	Routed        int           `json:"routed"`
	Fallback      int           `json:"fallback"`
	Corrected     int           `json:"corrected"`
	SolveTime     time.Duration `json:"solveTime"`
	TotalTime     time.Duration `json:"totalTime"`
}

// Engine lays out diagrams with a solver.
type Engine struct {
	Solver solver.Solver
	// SolverName labels solver events in logs and hooks.
	SolverName string
	Config     Config
	Logger     *log.Logger
}

// New returns an engine using cfg. A nil logger discards output.
func New(s solver.Solver, name string, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Solver: s, SolverName: name, Config: cfg, Logger: logger}
}

// run carries the state of one layout invocation through the passes.
type run struct {
	m           Model
	cfg         Config
	log         *log.Logger
	dir         solver.Direction
	nodeSpacing float64
	// laidOut holds the diagram nodes in the solver graph, fixed ones
	// excluded. region holds every node the run may have moved; routes
	// touching it are rewritten.
	laidOut  map[string]bool
	region   map[string]bool
	fixed    map[string]bool
	subset   bool
	sections map[string]placedSection
	stats    Stats
}

// Layout lays out the whole diagram, or the contents of opts.ScopeID.
func (e *Engine) Layout(ctx context.Context, m Model, opts Options) (*Result, error) {
	idx := newIndex(m)
	r, sopts, err := e.prepare(m, opts.Direction, opts.NodeSpacing, opts.LayerSpacing)
	if err != nil {
		return nil, err
	}

	origin := geom.Pt(e.Config.MarginX, e.Config.MarginY)
	if opts.ScopeID != "" {
		scope, ok := idx.nodes[opts.ScopeID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScope, "scope %q does not exist", opts.ScopeID)
		}
		if scope.Kind() != diagram.KindContainer {
			return nil, errors.New(errors.ErrCodeInvalidScope, "scope %q is a %s, not a pool or sub-process", opts.ScopeID, scope.Type)
		}
		origin = scope.Bounds.Origin()
		r.region = idx.descendants(opts.ScopeID)
	} else {
		r.region = make(map[string]bool, len(idx.order))
		for _, id := range idx.order {
			r.region[id] = true
		}
	}

	var priority map[string]bool
	if !opts.SkipHappyPath {
		priority = idx.happyPath()
	}
	b := &builder{idx: idx, cfg: e.Config, priority: priority}
	root := b.build(opts.ScopeID)
	return e.execute(ctx, r, root, origin, sopts)
}

// LayoutSubset lays out opts.IDs and the connections among them, keeping
// the rest of the diagram in place. The subset is placed at the top-left
// of its current bounding box.
func (e *Engine) LayoutSubset(ctx context.Context, m Model, opts SubsetOptions) (*Result, error) {
	if len(opts.IDs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSubset, "subset is empty")
	}
	idx := newIndex(m)
	var rects []geom.Rect
	for _, id := range opts.IDs {
		n, ok := idx.nodes[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSubset, "subset node %q does not exist", id)
		}
		if !isPrimary(n) {
			return nil, errors.New(errors.ErrCodeInvalidSubset, "subset node %q is a %s and cannot be laid out", id, n.Type)
		}
		rects = append(rects, n.Bounds)
	}
	r, sopts, err := e.prepare(m, opts.Direction, opts.NodeSpacing, opts.LayerSpacing)
	if err != nil {
		return nil, err
	}
	r.subset = true

	box, _ := geom.Bounds(rects)
	b := &builder{idx: idx, cfg: e.Config}
	root, fixed := b.buildSubset(opts.IDs, opts.PinDecorations, box.Origin())
	r.fixed = fixed

	r.region = make(map[string]bool)
	for _, id := range opts.IDs {
		for d := range idx.descendants(id) {
			r.region[d] = true
		}
	}
	for deco, host := range secondaryLinks(idx) {
		if r.region[host] {
			r.region[deco] = true
		}
	}
	for _, id := range idx.order {
		if n := idx.nodes[id]; n.Kind() == diagram.KindBoundaryMarker && r.region[n.Host] {
			r.region[id] = true
		}
	}

	return e.execute(ctx, r, root, box.Origin(), sopts)
}

// DetectCrossings is a diagnostic-only run over the current waypoints.
func (e *Engine) DetectCrossings(m Model) *Result {
	pairs := DetectCrossings(m)
	return &Result{
		RunID:             uuid.NewString(),
		CrossingFlows:     len(pairs),
		CrossingFlowPairs: pairs,
		Stats:             Stats{Nodes: len(m.Nodes()), Edges: len(m.Connections())},
	}
}

func (e *Engine) prepare(m Model, dir solver.Direction, nodeSpacing, layerSpacing float64) (*run, solver.Options, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, solver.Options{}, err
	}
	d, err := solver.ParseDirection(string(dir))
	if err != nil {
		return nil, solver.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid direction")
	}
	if nodeSpacing < 0 || layerSpacing < 0 {
		return nil, solver.Options{}, errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative")
	}
	if nodeSpacing == 0 {
		nodeSpacing = e.Config.NodeSpacing
	}
	if layerSpacing == 0 {
		layerSpacing = e.Config.LayerSpacing
	}
	logger := e.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &run{
		m:           m,
		cfg:         e.Config,
		log:         logger,
		dir:         d,
		nodeSpacing: nodeSpacing,
		laidOut:     make(map[string]bool),
		fixed:       make(map[string]bool),
		sections:    make(map[string]placedSection),
	}
	sopts := solver.Options{Direction: d, NodeSpacing: nodeSpacing, LayerSpacing: layerSpacing}.WithDefaults()
	return r, sopts, nil
}

// execute solves root and runs the geometric passes. origin is the
// absolute top-left of root.
func (e *Engine) execute(ctx context.Context, r *run, root *solver.Node, origin geom.Point, sopts solver.Options) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()
	r.log = r.log.With("run", runID)
	res = &Result{RunID: runID}

	root.Walk(func(n *solver.Node) {
		r.stats.Edges += len(n.Edges)
		if n != root && !n.Fixed {
			r.laidOut[n.ID] = true
		}
	})
	r.stats.Nodes = len(r.laidOut)

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, runID, r.stats.Nodes)
	defer func() {
		r.stats.TotalTime = time.Since(start)
		res.Stats = r.stats
		hooks.OnLayoutComplete(ctx, runID, res.CrossingFlows, r.stats.TotalTime, err)
		if err != nil {
			res = nil
		}
	}()

	if len(root.Children) == 0 {
		r.log.Info("nothing to lay out")
		return res, nil
	}

	solveStart := time.Now()
	solved, err := e.Solver.Layout(ctx, root, sopts)
	r.stats.SolveTime = time.Since(solveStart)
	hooks.OnSolveComplete(ctx, runID, e.SolverName, r.stats.SolveTime, err)
	if err != nil {
		return res, errors.Wrap(errors.ErrCodeSolver, err, "layout solver failed")
	}
	r.log.Debug("solved", "solver", e.SolverName, "nodes", r.stats.Nodes, "edges", r.stats.Edges, "duration", r.stats.SolveTime)

	passes := []struct {
		name string
		fn   func() error
	}{
		{"positions", func() error { return r.applyPositions(solved, origin) }},
		{"sizes", func() error { return r.applySizes(solved) }},
		{"pinned", func() error { return r.clearPinned(solved) }},
		{"markers", r.fixStranded},
		{"alignment", r.alignRanks},
		{"lanes", r.fitLanes},
		{"decorations", r.placeSecondary},
		{"routes", r.route},
		{"correction", r.correctOrthogonal},
	}
	for _, p := range passes {
		if err := p.fn(); err != nil {
			return res, errors.Wrap(errors.ErrCodeInternal, err, "%s pass", p.name)
		}
	}
	r.log.Debug("applied",
		"moved", r.stats.Moved,
		"resized", r.stats.Resized,
		"stranded", r.stats.StrandedFixed,
		"aligned", r.stats.Aligned,
		"placed", r.stats.Placed,
		"routed", r.stats.Routed,
		"fallback", r.stats.Fallback,
		"corrected", r.stats.Corrected)

	pairs := DetectCrossings(r.m)
	res.CrossingFlows = len(pairs)
	res.CrossingFlowPairs = pairs
	r.log.Info("layout complete", "nodes", r.stats.Nodes, "crossings", len(pairs), "duration", time.Since(start))
	return res, nil
}
