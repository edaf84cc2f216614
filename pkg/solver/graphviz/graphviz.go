package graphviz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowlayout/pkg/solver"
)

// jsonFormat selects the Graphviz JSON renderer, which reports the laid-out
// geometry of every node, cluster and edge.
const jsonFormat graphviz.Format = "json"

// Solver runs the dot engine in-process.
type Solver struct{}

// New returns a Graphviz solver.
func New() *Solver { return &Solver{} }

// Layout implements solver.Solver.
func (s *Solver) Layout(ctx context.Context, root *solver.Node, opts solver.Options) (*solver.Node, error) {
	if len(root.Children) == 0 {
		out := root.Clone()
		out.Positioned = true
		return out, nil
	}
	data, err := Render(ctx, ToDOT(root, opts))
	if err != nil {
		return nil, err
	}
	return Apply(root, data)
}

// Render lays out DOT source and returns the Graphviz JSON output.
func Render(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, jsonFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var _ solver.Solver = (*Solver)(nil)
