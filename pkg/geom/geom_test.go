package geom

import "testing"

func TestSegmentsCross(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Point
		want           bool
	}{
		{"plus", Pt(0, 5), Pt(10, 5), Pt(5, 0), Pt(5, 10), true},
		{"parallel", Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5), false},
		{"shared endpoint", Pt(0, 0), Pt(10, 0), Pt(10, 0), Pt(10, 10), false},
		{"T junction", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(5, 10), false},
		{"collinear overlap", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(15, 0), false},
		{"disjoint", Pt(0, 0), Pt(1, 1), Pt(5, 5), Pt(6, 7), false},
		{"diagonals", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsCross(tt.a1, tt.a2, tt.b1, tt.b2); got != tt.want {
				t.Errorf("SegmentsCross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Point{Pt(0, 0), Pt(0, 0), Pt(5, 0), Pt(5, 0), Pt(5, 5)})
	if len(got) != 3 {
		t.Fatalf("Dedupe len = %d, want 3", len(got))
	}
	if !got[2].Eq(Pt(5, 5)) {
		t.Errorf("last point = %v, want (5,5)", got[2])
	}
	if Dedupe(nil) != nil {
		t.Error("Dedupe(nil) should stay nil")
	}
}

func TestDistinct(t *testing.T) {
	if n := Distinct([]Point{Pt(1, 1), Pt(1, 1)}); n != 1 {
		t.Errorf("Distinct = %d, want 1", n)
	}
	if n := Distinct([]Point{Pt(1, 1), Pt(2, 1), Pt(1, 1)}); n != 2 {
		t.Errorf("Distinct = %d, want 2", n)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 80}
	if c := r.Center(); !c.Eq(Pt(60, 60)) {
		t.Errorf("Center = %v", c)
	}
	if !r.ContainsPoint(Pt(10, 20)) || r.ContainsPoint(Pt(9, 20)) {
		t.Error("ContainsPoint border handling")
	}
	if r.Overlaps(Rect{X: 110, Y: 20, W: 10, H: 10}) {
		t.Error("touching rectangles should not overlap")
	}
	if !r.Overlaps(Rect{X: 100, Y: 90, W: 20, H: 20}) {
		t.Error("corner overlap not detected")
	}
	u := r.Union(Rect{X: 0, Y: 0, W: 5, H: 5})
	if u != (Rect{X: 0, Y: 0, W: 110, H: 100}) {
		t.Errorf("Union = %+v", u)
	}
	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) should report false")
	}
}
