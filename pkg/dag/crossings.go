package dag

import (
	"cmp"
	"slices"
)

// CountCrossings sums the edge crossings between every pair of consecutive
// rows in orders. Missing rows count as empty.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for r, upper := range orders {
		if lower, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, upper, lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossings between the edges running from upper
// to lower. Two edges cross when their sources and targets are ordered
// oppositely, so the count is the number of inversions in the target
// positions once edges are sorted by source. Inversions are counted with a
// merge sort in O(E log E).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	pos := PosMap(lower)
	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, c := range g.Children(id) {
			if p, ok := pos[c]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		if c := cmp.Compare(a.from, b.from); c != 0 {
			return c
		}
		return cmp.Compare(a.to, b.to)
	})
	targets := make([]int, len(spans))
	for i, s := range spans {
		targets[i] = s.to
	}
	return inversions(targets, make([]int, len(targets)))
}

// inversions sorts xs and returns the number of pairs i<j with xs[i]>xs[j].
func inversions(xs, buf []int) int {
	if len(xs) < 2 {
		return 0
	}
	mid := len(xs) / 2
	n := inversions(xs[:mid], buf[:mid]) + inversions(xs[mid:], buf[mid:])
	i, j, k := 0, mid, 0
	for i < mid && j < len(xs) {
		if xs[j] < xs[i] {
			n += mid - i
			buf[k] = xs[j]
			j++
		} else {
			buf[k] = xs[i]
			i++
		}
		k++
	}
	k += copy(buf[k:], xs[i:mid])
	copy(buf[k:], xs[j:])
	copy(xs, buf[:len(xs)])
	return n
}
