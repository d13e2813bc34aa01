package allen

import (
	"math"

	"github.com/soundprediction/burstgraph/pkg/types"
)

// Interval is an inclusive sentence range.
type Interval struct {
	Start float64
	End   float64
}

// FromBurst returns the interval covered by b.
func FromBurst(b types.Burst) Interval {
	return Interval{Start: float64(b.Start), End: float64(b.End)}
}

// Len returns the number of sentences covered by the interval.
func (i Interval) Len() float64 {
	return i.End - i.Start + 1
}

// Tolerance returns alpha·(len(x)+len(y)).
func Tolerance(x, y Interval, alpha float64) float64 {
	return alpha * (x.Len() + y.Len())
}

// Forward relations are always tested, in this order.
var forward = []types.Relation{
	types.RelationEquals,
	types.RelationFinishes,
	types.RelationStarts,
	types.RelationIncludes,
	types.RelationMeets,
	types.RelationOverlaps,
	types.RelationBefore,
}

// Inverse relations are tested only on request, in this order.
var inverse = []types.Relation{
	types.RelationMetBy,
	types.RelationOverlappedBy,
	types.RelationDuring,
	types.RelationStartedBy,
	types.RelationFinishedBy,
	types.RelationAfter,
}

// Holds reports whether relation r holds from x to y. before and after also
// require the gap between the intervals to be at most maxGap.
func Holds(r types.Relation, x, y Interval, tol, maxGap float64) bool {
	s1, e1, s2, e2 := x.Start, x.End, y.Start, y.End
	near := func(a, b float64) bool { return math.Abs(a-b) < tol }
	far := func(a, b float64) bool { return math.Abs(a-b) > tol }

	switch r {
	case types.RelationEquals:
		return near(s1, s2) && near(e1, e2)
	case types.RelationFinishes:
		return far(s1, s2) && near(e1, e2) && s1 > s2 && s1 < e2
	case types.RelationStarts:
		return near(s1, s2) && far(e1, e2) && e1 > s2 && e1 < e2
	case types.RelationDuring:
		return s1 > s2 && e1 < e2 && far(s1, s2) && far(e1, e2)
	case types.RelationMeets:
		return s1 < s2 && e1 < e2 && near(e1, s2)
	case types.RelationOverlaps:
		return s1 < s2 && e1 > s2 && far(e1, s2) && e1 < e2 && far(e2, e1) && far(s2, s1)
	case types.RelationBefore:
		return s2 > e1+tol && s2-e1 <= maxGap
	case types.RelationMetBy:
		return s1 > s2 && s1 > e2 && near(s1, e2)
	case types.RelationOverlappedBy:
		return s1 > s2 && s1 < e2 && far(s1, e2) && far(s1, s2) && e1 > e2 && far(e1, e2)
	case types.RelationIncludes:
		return s1 < s2 && e1 > e2 && far(s1, s2) && far(e1, e2)
	case types.RelationStartedBy:
		return e1 > e2 && s1 < e2 && near(s1, s2) && far(e1, e2)
	case types.RelationFinishedBy:
		return s1 < s2 && e1 > s2 && far(s1, s2) && near(e1, e2)
	case types.RelationAfter:
		return s1 > e2+tol && s1-e2 <= maxGap
	default:
		return false
	}
}

// Classify returns every relation holding from x to y, forward relations
// first.
func Classify(x, y Interval, tol, maxGap float64, findInverse bool) []types.Relation {
	var out []types.Relation
	for _, r := range forward {
		if Holds(r, x, y, tol, maxGap) {
			out = append(out, r)
		}
	}
	if !findInverse {
		return out
	}
	for _, r := range inverse {
		if Holds(r, x, y, tol, maxGap) {
			out = append(out, r)
		}
	}
	return out
}
