// Package overlap implements the tracker's pixel-set overlap ratio
// (§4.2a): the sole primitive the day-to-day linker needs, and the only
// thing it needs to know about an Object's shape.
package overlap

import "github.com/mhwtrack/trackcore/internal/grid"

// Score computes overlap(A, B) = |A ∩ B| / min(|A|, |B|).
//
// The denominator is deliberately min, not max or |A ∪ B|: this favours
// matching a smaller child to a larger parent, which is the useful
// behaviour when a tracked object is growing rapidly day over day.
// Score is symmetric, lies in [0, 1], and equals 1 iff one operand is a
// subset of the other. Score(nil, nil) is defined as 0, not NaN: an
// empty object cannot overlap anything.
func Score(a, b []grid.CellID) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	set := make(map[grid.CellID]struct{}, len(large))
	for _, c := range large {
		set[c] = struct{}{}
	}
	intersect := 0
	for _, c := range small {
		if _, ok := set[c]; ok {
			intersect++
		}
	}
	return float64(intersect) / float64(len(small))
}
