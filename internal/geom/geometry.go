package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooFewPoints is returned when a curve is built from fewer than two points
var ErrTooFewPoints = errors.New("a curve needs at least two points")

// Vector is a point or a direction on the drawing plane
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec returns the vector (x, y)
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }

func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

func (v Vector) Mul(s float64) Vector { return Vector{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the scalar 2D cross product v.X*o.Y - v.Y*o.X
func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Length returns the Euclidean length of the vector
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance calculates Euclidean distance between two points
func (v Vector) Distance(o Vector) float64 {
	return o.Sub(v).Length()
}

// NormalizeTo scales the vector to the given length.
// The vector must not be zero; a zero vector yields NaN components.
func (v Vector) NormalizeTo(length float64) Vector {
	return v.Mul(length / v.Length())
}

// RotateBy rotates the vector counter-clockwise by angle radians
func (v Vector) RotateBy(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// IsFinite reports whether both coordinates are finite numbers
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Segment is a directed line segment
type Segment struct {
	Start Vector `json:"start"`
	End   Vector `json:"end"`
}

// Seg returns the segment from start to end
func Seg(start, end Vector) Segment {
	return Segment{Start: start, End: end}
}

// Vector returns End - Start
func (s Segment) Vector() Vector {
	return s.End.Sub(s.Start)
}

func (s Segment) Length() float64 {
	return s.Vector().Length()
}

// Reverse returns the segment with swapped endpoints
func (s Segment) Reverse() Segment {
	return Segment{Start: s.End, End: s.Start}
}

func (s Segment) String() string {
	return fmt.Sprintf("%v -> %v", s.Start, s.End)
}

// Curve is an ordered, end-to-end connected sequence of segments
type Curve struct {
	Segments []Segment `json:"segments"`
}

// NewCurve copies segs into a new curve
func NewCurve(segs ...Segment) Curve {
	return Curve{Segments: append([]Segment(nil), segs...)}
}

// CurveFromPoints connects consecutive points into a curve
func CurveFromPoints(points []Vector) (Curve, error) {
	if len(points) < 2 {
		return Curve{}, ErrTooFewPoints
	}

	segs := make([]Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segs = append(segs, Segment{Start: points[i], End: points[i+1]})
	}
	return Curve{Segments: segs}, nil
}

// Length is the sum of the segment lengths
func (c Curve) Length() float64 {
	total := 0.0
	for _, s := range c.Segments {
		total += s.Length()
	}
	return total
}

// IsEmpty reports whether the curve has no segments
func (c Curve) IsEmpty() bool {
	return len(c.Segments) == 0
}

// Start returns the start of the first segment. The curve must not be empty.
func (c Curve) Start() Vector {
	return c.Segments[0].Start
}

// End returns the end of the last segment. The curve must not be empty.
func (c Curve) End() Vector {
	return c.Segments[len(c.Segments)-1].End
}

// Points returns the first start point followed by every segment end point
func (c Curve) Points() []Vector {
	if c.IsEmpty() {
		return nil
	}

	points := make([]Vector, 0, len(c.Segments)+1)
	points = append(points, c.Segments[0].Start)
	for _, s := range c.Segments {
		points = append(points, s.End)
	}
	return points
}

// IsContiguous reports whether every segment starts where the previous one ended
func (c Curve) IsContiguous() bool {
	for i := 1; i < len(c.Segments); i++ {
		if c.Segments[i-1].End != c.Segments[i].Start {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the curve
func (c Curve) Clone() Curve {
	return NewCurve(c.Segments...)
}
