package geom

import "math"

// Orientation returns the sign of the cross product (q-p)×(r-p):
// +1 for a counter-clockwise turn, -1 for clockwise and 0 for collinear points.
func Orientation(p, q, r Point) int {
	v := (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	switch {
	case v > Epsilon:
		return 1
	case v < -Epsilon:
		return -1
	}
	return 0
}

// SegmentsCross reports whether segments a1-a2 and b1-b2 properly intersect:
// they cross at a single interior point of both. Touching at an endpoint and
// collinear overlap are not crossings.
func SegmentsCross(a1, a2, b1, b2 Point) bool {
	o1 := Orientation(a1, a2, b1)
	o2 := Orientation(a1, a2, b2)
	o3 := Orientation(b1, b2, a1)
	o4 := Orientation(b1, b2, a2)
	return o1*o2 < 0 && o3*o4 < 0
}

// IsOrthogonal reports whether the segment a-b is strictly horizontal or
// vertical.
func IsOrthogonal(a, b Point) bool {
	return a.X == b.X || a.Y == b.Y
}

// Dedupe removes consecutive points that coincide within Epsilon.
func Dedupe(points []Point) []Point {
	if len(points) == 0 {
		return points
	}
	out := make([]Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if !p.Eq(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}

// Distinct reports the number of distinct coordinates in points.
func Distinct(points []Point) int {
	n := 0
	for i, p := range points {
		dup := false
		for _, q := range points[:i] {
			if p.Eq(q) {
				dup = true
				break
			}
		}
		if !dup {
			n++
		}
	}
	return n
}

// Manhattan returns the sum of axis deltas along the polyline.
func Manhattan(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += math.Abs(points[i].X-points[i-1].X) + math.Abs(points[i].Y-points[i-1].Y)
	}
	return total
}
