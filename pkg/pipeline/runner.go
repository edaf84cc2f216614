package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Runner encapsulates pipeline execution with solver caching.
// Both CLI and API use it to avoid duplicating the wiring.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner as long as they lay out different
// diagrams.
type Runner struct {
	Cache cache.Cache
	// Keyer derives solver cache keys; nil means cache.DefaultKeyer.
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Run lays out d in place according to opts.
func (r *Runner) Run(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	engine, err := newEngine(opts, r.Cache, r.Keyer, opts.Logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var res *layout.Result
	if opts.IsSubset() {
		res, err = engine.LayoutSubset(ctx, d, opts.SubsetOptions())
	} else {
		res, err = engine.Layout(ctx, d, opts.LayoutOptions())
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Diagram: d,
		Layout:  res,
		Stats: Stats{
			Nodes:       d.NodeCount(),
			Connections: d.ConnectionCount(),
			LayoutTime:  time.Since(start),
		},
	}
	opts.Logger.Info("laid out diagram",
		"mode", opts.String(),
		"solver", opts.Solver,
		"nodes", result.Stats.Nodes,
		"crossings", res.CrossingFlows,
		"duration", result.Stats.LayoutTime)
	return result, nil
}

// RunFile loads the document at in, lays it out and writes it to out.
// An empty out overwrites in.
func (r *Runner) RunFile(ctx context.Context, in, out string, opts Options) (*Result, error) {
	d, err := Load(in)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	if out == "" {
		out = in
	}
	if err := Save(d, out); err != nil {
		return nil, err
	}
	return res, nil
}

// Crossings reports intersecting connections of d without changing it.
func (r *Runner) Crossings(d *diagram.Diagram) *layout.Result {
	e := layout.New(nil, "", layout.DefaultConfig(), r.Logger)
	return e.DetectCrossings(d)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
