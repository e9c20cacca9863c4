// Package router finds curves between two points that keep clear of a set
// of existing curves.
//
// When the straight segment between the points is clear it is returned as
// is. Otherwise detour waypoints are placed around the ends and joints of the
// existing curves, every pair of waypoints with line-of-sight is connected,
// and the resulting visibility graph is searched for the shortest route.
package router

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"lines-drawer/internal/geom"
)

// ErrInvalidOptions is returned by New for unusable options
var ErrInvalidOptions = errors.New("invalid router options")

// Strategy selects the graph search
type Strategy int

const (
	// Layered expands paths one generation of edges at a time and keeps the
	// shortest path that reaches the goal
	Layered Strategy = iota

	// Shortest runs A* weighted by path length
	Shortest
)

func (s Strategy) String() string {
	switch s {
	case Layered:
		return "layered"
	case Shortest:
		return "shortest"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts "layered" or "shortest"
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "layered":
		return Layered, nil
	case "shortest", "astar":
		return Shortest, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, name)
}

// Options tune the router
type Options struct {
	KeepDistance float64  // near-miss tolerance of the intersection test
	Offset       float64  // distance of detour waypoints from curve points
	DetourAngle  float64  // rotation of end waypoints, in radians
	Strategy     Strategy // graph search
}

// DefaultOptions returns the options the package-level functions use
func DefaultOptions() Options {
	return Options{
		KeepDistance: DefaultKeepDistance,
		Offset:       DefaultOffset,
		DetourAngle:  DefaultDetourAngle,
		Strategy:     Layered,
	}
}

func (o Options) validate() error {
	positive := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidOptions, name, v)
		}
		return nil
	}

	if err := positive("keep distance", o.KeepDistance); err != nil {
		return err
	}
	if err := positive("offset", o.Offset); err != nil {
		return err
	}
	if err := positive("detour angle", o.DetourAngle); err != nil {
		return err
	}
	if o.Strategy != Layered && o.Strategy != Shortest {
		return fmt.Errorf("%w: unknown strategy %v", ErrInvalidOptions, o.Strategy)
	}
	return nil
}

// Router finds non-intersecting curves. It holds no state between calls and
// is safe for concurrent use.
type Router struct {
	opts Options
}

// New returns a router using opts
func New(opts Options) (*Router, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Router{opts: opts}, nil
}

var defaultRouter = &Router{opts: DefaultOptions()}

// FindNonIntersectingCurve finds a curve from a to b that does not
// intersect curves using the default options
func FindNonIntersectingCurve(a, b geom.Vector, curves []geom.Curve) (geom.Curve, bool) {
	return defaultRouter.FindNonIntersectingCurve(a, b, curves)
}

// Options returns the router's options
func (r *Router) Options() Options {
	return r.opts
}

// DetectSegmentsIntersection checks if two segments intersect using the
// router's keep distance
func (r *Router) DetectSegmentsIntersection(a, b geom.Segment) bool {
	return detectIntersection(a, b, r.opts.KeepDistance)
}

// FindNonIntersectingCurve finds a curve from a to b that does not intersect
// curves. It reports false if the waypoint graph cannot connect a and b.
//
// The segments of curves must have non-zero length.
func (r *Router) FindNonIntersectingCurve(a, b geom.Vector, curves []geom.Curve) (geom.Curve, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return geom.Curve{}, false
	}

	obstacles := NewSpatialIndex(curves, r.opts.KeepDistance)

	direct := geom.Segment{Start: a, End: b}
	if obstacles.IsPathClear(direct) {
		return geom.NewCurve(direct), true
	}

	log.Printf("🔍 Direct line %v is blocked, routing around %d obstacle segments\n", direct, obstacles.Len())

	graph := BuildVisibilityGraph(r.Waypoints(a, b, curves), obstacles)
	start, goal := graph.NodeIndex(a), graph.NodeIndex(b)

	var edges []int
	var ok bool
	switch r.opts.Strategy {
	case Shortest:
		edges, ok = AStarSearch(graph, start, goal)
	default:
		edges, ok = LayeredSearch(graph, start, goal)
	}
	if !ok {
		log.Println("❌ No path found on waypoint graph")
		return geom.Curve{}, false
	}

	segs := make([]geom.Segment, len(edges))
	for i, e := range edges {
		segs[i] = graph.Segment(e)
	}
	curve := geom.Curve{Segments: segs}
	log.Printf("✅ Path found with %d segments, length %.2f\n", len(segs), curve.Length())

	return curve, true
}

// Waypoints returns the detour waypoints around curves followed by a and b
func (r *Router) Waypoints(a, b geom.Vector, curves []geom.Curve) []geom.Vector {
	return generateWaypoints(a, b, curves, r.opts.Offset, r.opts.DetourAngle)
}

// VisibilityGraph builds the waypoint graph used to route from a to b
func (r *Router) VisibilityGraph(a, b geom.Vector, curves []geom.Curve) *Graph {
	obstacles := NewSpatialIndex(curves, r.opts.KeepDistance)
	return BuildVisibilityGraph(r.Waypoints(a, b, curves), obstacles)
}
