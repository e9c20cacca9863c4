package router

import (
	"math"

	"lines-drawer/internal/geom"
)

const (
	// DefaultOffset is the distance of a detour waypoint from the curve point it avoids
	DefaultOffset = 20.0

	// DefaultDetourAngle is the rotation applied to a curve's end directions (60°)
	DefaultDetourAngle = math.Pi / 3
)

// generateWaypoints derives detour points around the curves and appends a
// and b. Duplicates are dropped, keeping the first occurrence.
func generateWaypoints(a, b geom.Vector, curves []geom.Curve, offset, angle float64) []geom.Vector {
	seen := make(map[geom.Vector]bool)
	var waypoints []geom.Vector
	add := func(points ...geom.Vector) {
		for _, p := range points {
			// a straight continuation has no mid vector to offset along
			if !p.IsFinite() || seen[p] {
				continue
			}
			seen[p] = true
			waypoints = append(waypoints, p)
		}
	}

	for _, curve := range curves {
		if curve.IsEmpty() {
			continue
		}

		first := curve.Segments[0]
		deltaA, deltaB := detourDeltas(first, offset, angle)
		add(first.Start.Sub(deltaA), first.Start.Sub(deltaB))

		last := curve.Segments[len(curve.Segments)-1]
		deltaA, deltaB = detourDeltas(last, offset, angle)
		add(last.End.Add(deltaA), last.End.Add(deltaB))

		for i := 1; i < len(curve.Segments); i++ {
			prev := curve.Segments[i-1]
			next := curve.Segments[i]

			mid := prev.Vector().NormalizeTo(1).Sub(next.Vector().NormalizeTo(1))
			midDelta := mid.NormalizeTo(offset)
			add(prev.End.Add(midDelta), prev.End.Sub(midDelta))
		}
	}

	add(a, b)
	return waypoints
}

// detourDeltas returns the segment direction scaled to offset and rotated by
// +angle and -angle
func detourDeltas(seg geom.Segment, offset, angle float64) (geom.Vector, geom.Vector) {
	delta := seg.Vector().NormalizeTo(offset)
	return delta.RotateBy(angle), delta.RotateBy(-angle)
}
