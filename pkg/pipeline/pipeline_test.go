package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/geom"
)

const chainYAML = `nodes:
  - id: start
    type: startEvent
    bounds: {x: 0, y: 0, width: 36, height: 36}
  - id: review
    type: userTask
    bounds: {x: 0, y: 0, width: 100, height: 80}
  - id: end
    type: endEvent
    bounds: {x: 0, y: 0, width: 36, height: 36}
connections:
  - {id: f1, kind: sequence, source: start, target: review}
  - {id: f2, kind: sequence, source: review, target: end}
`

func TestValidateSolver(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"layered", false},
		{"graphviz", false},
		{"elk", true},
		{"Layered", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateSolver(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSolver(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Direction: "down"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Solver != DefaultSolver {
		t.Errorf("Solver should be %s, got %s", DefaultSolver, opts.Solver)
	}
	if opts.Direction != "DOWN" {
		t.Errorf("Direction should be normalized to DOWN, got %s", opts.Direction)
	}
	if opts.Config == nil || opts.Config.NodeSpacing != 50 {
		t.Errorf("Config should default, got %+v", opts.Config)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad solver", Options{Solver: "elk"}, errors.ErrCodeInvalidInput},
		{"bad direction", Options{Direction: "north"}, errors.ErrCodeInvalidInput},
		{"negative spacing", Options{NodeSpacing: -5}, errors.ErrCodeInvalidInput},
		{"scope and subset", Options{ScopeID: "p", SubsetIDs: []string{"a"}}, errors.ErrCodeInvalidInput},
		{"missing config", Options{ConfigPath: filepath.Join(os.TempDir(), "does-not-exist.toml")}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	cfg := opts.Config

	// A later invalid edit is not re-checked once validated.
	opts.Solver = "elk"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Config != cfg {
		t.Error("Config replaced on second call")
	}
}

func TestOptionsMode(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{}, "full"},
		{Options{ScopeID: "pool"}, "scope pool"},
		{Options{SubsetIDs: []string{"a", "b"}}, "subset of 2"},
	}
	for _, tt := range tests {
		if got := tt.opts.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewSolver(t *testing.T) {
	for _, name := range []string{"", SolverLayered, SolverGraphviz} {
		if s, err := NewSolver(name); err != nil || s == nil {
			t.Errorf("NewSolver(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := NewSolver("elk"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewSolver(elk) error = %v", err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chain.yaml")
	out := filepath.Join(dir, "chain.json")
	if err := os.WriteFile(in, []byte(chainYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil)
	defer r.Close()
	res, err := r.RunFile(context.Background(), in, out, Options{})
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if res.Stats.Nodes != 3 || res.Stats.Connections != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Layout.RunID == "" {
		t.Error("missing run id")
	}

	d, err := Load(out)
	if err != nil {
		t.Fatalf("Load output: %v", err)
	}
	review, _ := d.Node("review")
	if review.Bounds.Origin() == (geom.Point{}) {
		t.Error("review was not moved")
	}
	f1, _ := d.Connection("f1")
	if len(f1.Waypoints) < 2 {
		t.Errorf("f1 waypoints = %v", f1.Waypoints)
	}
}

func TestRunSubset(t *testing.T) {
	d := diagram.New()
	for _, n := range []diagram.Node{
		{ID: "a", Type: diagram.TypeTask, Bounds: geom.Rect{X: 300, Y: 300, W: 100, H: 80}},
		{ID: "b", Type: diagram.TypeTask, Bounds: geom.Rect{X: 100, Y: 100, W: 100, H: 80}},
		{ID: "c", Type: diagram.TypeTask, Bounds: geom.Rect{X: 900, Y: 900, W: 100, H: 80}},
	} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AddConnection(diagram.Connection{ID: "f1", Kind: diagram.ConnSequence, Source: "a", Target: "b"}); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil).Run(context.Background(), d, Options{SubsetIDs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Diagram != d {
		t.Error("result should carry the input diagram")
	}
	a, _ := d.Node("a")
	if a.Bounds.Origin() != geom.Pt(100, 100) {
		t.Errorf("a at %v, want (100,100)", a.Bounds.Origin())
	}
	c, _ := d.Node("c")
	if c.Bounds.Origin() != geom.Pt(900, 900) {
		t.Errorf("c moved to %v", c.Bounds.Origin())
	}
}

func TestRunCachesSolverResults(t *testing.T) {
	mem := &memCache{data: map[string][]byte{}}
	r := NewRunner(mem, nil)
	for range 2 {
		d, err := Load(writeChain(t))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Run(context.Background(), d, Options{}); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if mem.sets != 1 || mem.hits != 1 {
		t.Errorf("sets = %d, hits = %d, want 1 and 1", mem.sets, mem.hits)
	}
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "nodes:\n  - {id: a, type: task, parent: ghost}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("Load error = %v, want INVALID_DIAGRAM", err)
	}
}

func TestCrossings(t *testing.T) {
	d, err := Load(writeChain(t))
	if err != nil {
		t.Fatal(err)
	}
	res := NewRunner(nil, nil).Crossings(d)
	if res.CrossingFlows != 0 || res.Stats.Edges != 2 {
		t.Errorf("Crossings = %+v", res)
	}
}

func writeChain(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chain.yaml")
	if err := os.WriteFile(path, []byte(chainYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type memCache struct {
	data       map[string][]byte
	hits, sets int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }
