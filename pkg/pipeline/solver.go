package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/solver"
	"github.com/matzehuels/flowlayout/pkg/solver/graphviz"
	"github.com/matzehuels/flowlayout/pkg/solver/layered"
)

// NewSolver returns the solver registered under name.
func NewSolver(name string) (solver.Solver, error) {
	switch name {
	case "", SolverLayered:
		return layered.New(), nil
	case SolverGraphviz:
		return graphviz.New(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "invalid solver: %q", name)
}

// newEngine builds a layout engine for validated options, memoizing solver
// results in c under keys from keyer.
func newEngine(opts Options, c cache.Cache, keyer cache.Keyer, logger *log.Logger) (*layout.Engine, error) {
	s, err := NewSolver(opts.Solver)
	if err != nil {
		return nil, err
	}
	cached := solver.NewCached(s, opts.Solver, c, logger)
	if keyer != nil {
		cached.Keyer = keyer
	}
	return layout.New(cached, opts.Solver, *opts.Config, logger), nil
}
