package layered

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/geom"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// DefaultSweeps is the number of down/up barycenter sweeps per container.
const DefaultSweeps = 4

// Solver is the in-process layered solver. The zero value is ready to use.
type Solver struct {
	// Sweeps overrides DefaultSweeps when positive.
	Sweeps int
}

// New returns a layered solver with default settings.
func New() *Solver { return &Solver{} }

// Layout implements solver.Solver. The input tree is not modified.
func (s *Solver) Layout(ctx context.Context, root *solver.Node, opts solver.Options) (*solver.Node, error) {
	opts = opts.WithDefaults()
	dir, err := solver.ParseDirection(string(opts.Direction))
	if err != nil {
		return nil, err
	}
	opts.Direction = dir
	out := root.Clone()
	out.Positioned = true
	if !out.IsContainer() {
		return out, nil
	}
	if err := s.arrange(ctx, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Solver) sweeps() int {
	if s.Sweeps > 0 {
		return s.Sweeps
	}
	return DefaultSweeps
}

// box is a child of the container being arranged, in working coordinates.
type box struct {
	node       *solver.Node
	x, y, w, h float64
	layer      int
}

func (b *box) rect() geom.Rect { return geom.Rect{X: b.x, Y: b.y, W: b.w, H: b.h} }

// arrange lays out n's children (recursively first) and sets n's size.
func (s *Solver) arrange(ctx context.Context, n *solver.Node, opts solver.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, c := range n.Children {
		if c.IsContainer() {
			if err := s.arrange(ctx, c, opts); err != nil {
				return err
			}
		}
		c.Positioned = true
	}

	f := frame{dir: opts.Direction}
	pad := f.padding(solver.PaddingOf(n))
	nodeSpacing := spacing(n, solver.KeyNodeSpacing, opts.NodeSpacing)
	layerSpacing := spacing(n, solver.KeyLayerSpacing, opts.LayerSpacing)

	g := dag.New()
	boxes := make(map[string]*box, len(n.Children))
	owner := make(map[string]string)
	var pinned []*solver.Node
	for _, c := range n.Children {
		if c.Fixed && c.Positioned {
			pinned = append(pinned, c)
			continue
		}
		if err := g.AddNode(dag.Node{ID: c.ID}); err != nil {
			return fmt.Errorf("container %s: child %q: %w", n.ID, c.ID, err)
		}
		w, h := f.size(c.Width, c.Height)
		boxes[c.ID] = &box{node: c, w: w, h: h}
		c.Walk(func(d *solver.Node) { owner[d.ID] = c.ID })
	}

	// Graph edges get positional IDs so duplicate or empty edge IDs in the
	// input cannot collide.
	routed := make(map[string]*solver.Edge)
	for i, e := range n.Edges {
		e.Sections = nil
		src, okS := owner[e.Source]
		tgt, okT := owner[e.Target]
		if !okS || !okT || src == tgt {
			continue
		}
		key := "e" + strconv.Itoa(i)
		if err := g.AddEdge(dag.Edge{ID: key, From: src, To: tgt}); err != nil {
			return fmt.Errorf("container %s: edge %q: %w", n.ID, e.ID, err)
		}
		if src == e.Source && tgt == e.Target {
			routed[key] = e
		}
	}

	back := make(map[string]bool)
	for _, e := range transform.BreakCycles(g) {
		back[e.ID] = true
	}
	transform.AssignLayers(g)
	for _, e := range g.Edges() {
		if back[e.ID] {
			g.RemoveEdge(e)
		}
	}
	chains := transform.Subdivide(g)

	orders := orderRows(g, s.sweeps())
	promote(orders, priorityMembers(n, owner, back, chains))

	layers := g.MaxRow() + 1
	layerW := make([]float64, layers)
	maxH := 0.0
	slots := 0
	for r, row := range orders {
		for _, id := range row {
			if b, ok := boxes[id]; ok {
				layerW[r] = max(layerW[r], b.w)
				maxH = max(maxH, b.h)
			}
		}
		slots = max(slots, len(row))
	}

	layerX := make([]float64, layers)
	x := pad.Left
	for r := range layers {
		layerX[r] = x
		x += layerW[r] + layerSpacing
	}
	width := x - layerSpacing + pad.Right
	gapX := func(r int) float64 { return layerX[r] + layerW[r] + layerSpacing/2 }
	slotY := func(i int) float64 { return pad.Top + float64(i)*(maxH+nodeSpacing) + maxH/2 }
	contentBottom := pad.Top + float64(slots)*maxH + float64(max(slots-1, 0))*nodeSpacing

	dummyY := make(map[string]float64)
	for r, row := range orders {
		for i, id := range row {
			b, ok := boxes[id]
			if !ok {
				dummyY[id] = slotY(i)
				continue
			}
			b.layer = r
			b.x = layerX[r] + (layerW[r]-b.w)/2
			b.y = slotY(i) - b.h/2
		}
	}
	if len(pinned) > 0 {
		obstacles := make([]geom.Rect, len(pinned))
		for i, c := range pinned {
			obstacles[i] = f.unrect(c.Rect(), width)
		}
		cols := make([]geom.Rect, layers)
		for r := range layers {
			cols[r] = geom.Rect{X: layerX[r], W: layerW[r]}
		}
		contentBottom = max(contentBottom, reserve(orders, boxes, dummyY, cols, obstacles, nodeSpacing))
	}

	loopGap := nodeSpacing / 2
	loops := 0
	for i, e := range n.Edges {
		key := "e" + strconv.Itoa(i)
		if routed[key] != e {
			continue
		}
		src, tgt := boxes[e.Source], boxes[e.Target]
		var sec solver.Section
		if back[key] {
			loops++
			sec = loopRoute(src, tgt, contentBottom+float64(loops)*loopGap)
		} else {
			ys := make([]float64, 0, len(chains[key]))
			for _, d := range chains[key] {
				ys = append(ys, dummyY[d])
			}
			sec = forwardRoute(src, tgt, ys, gapX)
		}
		e.Sections = []solver.Section{f.section(sec, width)}
	}

	height := contentBottom + float64(loops)*loopGap + pad.Bottom
	for _, c := range n.Children {
		b, ok := boxes[c.ID]
		if !ok {
			continue
		}
		r := f.rect(b.rect(), width)
		c.X, c.Y = r.X, r.Y
	}
	n.Width, n.Height = f.size(width, height)
	return nil
}

// forwardRoute runs from the source's trailing side to the target's leading
// side, stepping between slots halfway through each layer gap. ys holds the
// slot centers of the edge's dummy nodes.
func forwardRoute(src, tgt *box, ys []float64, gapX func(int) float64) solver.Section {
	start := geom.Pt(src.x+src.w, src.y+src.h/2)
	end := geom.Pt(tgt.x, tgt.y+tgt.h/2)

	levels := make([]float64, 0, len(ys)+2)
	levels = append(levels, start.Y)
	levels = append(levels, ys...)
	levels = append(levels, end.Y)

	var bends []geom.Point
	for j := 0; j+1 < len(levels); j++ {
		if levels[j] == levels[j+1] {
			continue
		}
		gx := gapX(src.layer + j)
		bends = append(bends, geom.Pt(gx, levels[j]), geom.Pt(gx, levels[j+1]))
	}
	return solver.Section{Start: start, End: end, Bends: bends}
}

// loopRoute leaves the source downward, runs back along y and enters the
// target from below.
func loopRoute(src, tgt *box, y float64) solver.Section {
	sx := src.x + src.w/2
	tx := tgt.x + tgt.w/2
	return solver.Section{
		Start: geom.Pt(sx, src.y+src.h),
		End:   geom.Pt(tx, tgt.y+tgt.h),
		Bends: []geom.Point{geom.Pt(sx, y), geom.Pt(tx, y)},
	}
}

// reserve pushes boxes and dummy slots that overlap an obstacle further
// along the cross axis, past the obstacle's far side plus gap. Later slots
// of the same layer follow so the order within a layer is kept. Dummies
// occupy a zero-height line across their layer column. It returns the new
// extent of the content.
func reserve(orders map[int][]string, boxes map[string]*box, dummyY map[string]float64, cols []geom.Rect, obstacles []geom.Rect, gap float64) float64 {
	bottom := 0.0
	for r, row := range orders {
		prev := math.Inf(-1)
		for _, id := range row {
			rect := cols[r]
			b, isBox := boxes[id]
			if isBox {
				rect = b.rect()
			} else {
				rect.Y = dummyY[id]
			}
			rect.Y = max(rect.Y, prev+gap)
			for {
				hit, ok := overlap(rect, obstacles)
				if !ok {
					break
				}
				rect.Y = hit.Bottom() + gap
			}
			if isBox {
				b.y = rect.Y
			} else {
				dummyY[id] = rect.Y
			}
			prev = rect.Bottom()
			bottom = max(bottom, prev)
		}
	}
	return bottom
}

func overlap(rect geom.Rect, obstacles []geom.Rect) (geom.Rect, bool) {
	for _, o := range obstacles {
		if rect.Overlaps(o) {
			return o, true
		}
	}
	return geom.Rect{}, false
}

// priorityMembers collects the children and dummy nodes carrying forward
// priority edges.
func priorityMembers(n *solver.Node, owner map[string]string, back map[string]bool, chains map[string][]string) map[string]bool {
	out := make(map[string]bool)
	for i, e := range n.Edges {
		key := "e" + strconv.Itoa(i)
		if !e.IsPriority() || back[key] {
			continue
		}
		src, okS := owner[e.Source]
		tgt, okT := owner[e.Target]
		if !okS || !okT || src == tgt {
			continue
		}
		out[src] = true
		out[tgt] = true
		for _, d := range chains[key] {
			out[d] = true
		}
	}
	return out
}

func spacing(n *solver.Node, key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(n.Options[key], 64); err == nil && v >= 0 {
		return v
	}
	return fallback
}

var _ solver.Solver = (*Solver)(nil)
