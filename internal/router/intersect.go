package router

import (
	"math"

	"lines-drawer/internal/geom"
)

// Epsilon is the tolerance below which cross products count as zero
const Epsilon = 1e-5

// DefaultKeepDistance is how far a projected intersection may lie beyond a
// segment's ends and still count as an intersection
const DefaultKeepDistance = 5.0

// DetectSegmentsIntersection checks if two segments intersect, treating near
// misses within DefaultKeepDistance as intersections
func DetectSegmentsIntersection(a, b geom.Segment) bool {
	return detectIntersection(a, b, DefaultKeepDistance)
}

// detectIntersection writes both segments parametrically, a = P + t*R and
// b = Q + u*S, and solves P + t*R = Q + u*S:
//
//	t = (Q - P) x S / (R x S)
//	u = (Q - P) x R / (R x S)
func detectIntersection(a, b geom.Segment, keepDistance float64) bool {
	r := a.Vector()
	s := b.Vector()

	rxs := r.Cross(s)
	qp := b.Start.Sub(a.Start)
	qpxr := qp.Cross(r)

	if math.Abs(rxs) <= Epsilon {
		if math.Abs(qpxr) > Epsilon {
			// parallel, never meet
			return false
		}

		// collinear: project b onto a and test [t0, t1] against [0, 1]
		rr := r.Dot(r)
		t0 := qp.Dot(r) / rr
		t1 := t0 + s.Dot(r)/rr
		return !(math.Max(t0, t1) < 0 || math.Min(t0, t1) > 1)
	}

	t := qp.Cross(s) / rxs
	u := qpxr / rxs

	return withinReach(t, r, keepDistance) && withinReach(u, s, keepDistance)
}

// withinReach reports whether the point at parameter p along v lies no
// further than keepDistance before its start or beyond its end
func withinReach(p float64, v geom.Vector, keepDistance float64) bool {
	reach := v.Mul(p).Length()
	if p < 0 {
		return reach <= keepDistance
	}
	return reach <= v.Length()+keepDistance
}
