package shapes

import (
	"math"

	"lines-drawer/internal/geom"
)

// Simplify reduces the number of vertices of a curve using the
// Douglas-Peucker algorithm. Fewer joints mean fewer detour waypoints when
// the curve is used as an obstacle. A non-positive epsilon leaves the curve
// unchanged.
func Simplify(c geom.Curve, epsilon float64) geom.Curve {
	if epsilon <= 0 || len(c.Segments) < 2 {
		return c
	}

	points := c.Points()
	closed := points[0] == points[len(points)-1]

	simplified := douglasPeucker(points, epsilon)
	if closed && len(simplified) < 4 {
		// a ring needs three distinct vertices
		return c
	}

	curve, err := geom.CurveFromPoints(simplified)
	if err != nil {
		return c
	}
	return curve
}

// SimplifyAll simplifies multiple curves
func SimplifyAll(curves []geom.Curve, epsilon float64) []geom.Curve {
	simplified := make([]geom.Curve, len(curves))
	for i, c := range curves {
		simplified[i] = Simplify(c, epsilon)
	}
	return simplified
}

// douglasPeucker keeps the endpoints and every vertex farther than epsilon
// from the chord of the run it splits. Runs are processed from a stack.
func douglasPeucker(points []geom.Vector, epsilon float64) []geom.Vector {
	if len(points) <= 2 {
		return points
	}

	keep := make([]bool, len(points))
	keep[0], keep[len(points)-1] = true, true

	runs := [][2]int{{0, len(points) - 1}}
	for len(runs) > 0 {
		run := runs[len(runs)-1]
		runs = runs[:len(runs)-1]

		first, last := run[0], run[1]
		farthest, dmax := -1, epsilon
		for i := first + 1; i < last; i++ {
			if d := perpendicularDistance(points[i], points[first], points[last]); d > dmax {
				farthest, dmax = i, d
			}
		}
		if farthest < 0 {
			continue
		}
		keep[farthest] = true
		runs = append(runs, [2]int{first, farthest}, [2]int{farthest, last})
	}

	out := make([]geom.Vector, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// perpendicularDistance calculates the distance from point to the line
// through lineStart and lineEnd. For a closed run (lineStart == lineEnd) it
// falls back to the distance from lineStart.
func perpendicularDistance(point, lineStart, lineEnd geom.Vector) float64 {
	dir := lineEnd.Sub(lineStart)
	pv := point.Sub(lineStart)

	mag := dir.Length()
	if mag == 0 {
		return pv.Length()
	}
	return math.Abs(dir.Cross(pv)) / mag
}
