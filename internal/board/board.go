// Package board keeps the state of a drawing board: pinned points and the
// curves accepted so far. Every second pin routes a new curve between the
// last two pins around all existing curves.
//
// State changes only through Dispatch; readers get copies via Snapshot.
package board

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"lines-drawer/internal/geom"
	"lines-drawer/internal/router"
)

var (
	// ErrInvalidPoint is returned for pins with non-finite coordinates
	ErrInvalidPoint = errors.New("point coordinates must be finite")

	// ErrDegenerateSegment is returned when both pins of a pair coincide
	ErrDegenerateSegment = errors.New("start and end point coincide")

	// ErrUnknownAction is returned by Dispatch for unsupported actions
	ErrUnknownAction = errors.New("unknown action")
)

// Router finds curves between two points around existing curves
type Router interface {
	FindNonIntersectingCurve(a, b geom.Vector, curves []geom.Curve) (geom.Curve, bool)
}

var _ Router = (*router.Router)(nil)

// Action is a state change request
type Action interface {
	isAction()
}

// PinPoint pins a point on the board
type PinPoint struct {
	X, Y float64
}

// Connect pins both points of a pair at once
type Connect struct {
	A, B geom.Vector
}

// ClearBoard removes pins and drawn curves
type ClearBoard struct{}

func (PinPoint) isAction()   {}
func (Connect) isAction()    {}
func (ClearBoard) isAction() {}

// State is a copy of the board contents
type State struct {
	Pins      []geom.Vector `json:"pins"`
	Curves    []geom.Curve  `json:"curves"`
	Obstacles int           `json:"obstacles"` // leading curves that were preloaded
}

// Outcome reports the effect of an action
type Outcome struct {
	Pins    int        `json:"pins"`
	Curves  int        `json:"curves"`
	Paired  bool       `json:"paired"`  // the action completed a pin pair
	Routed  bool       `json:"routed"`  // a curve was added
	Curve   geom.Curve `json:"curve"`   // the added curve
	Cleared int        `json:"cleared"` // curves removed by ClearBoard
}

// Options configure a board
type Options struct {
	// Obstacles are curves present from the start
	Obstacles []geom.Curve

	// KeepObstacles keeps the preloaded obstacles on ClearBoard
	KeepObstacles bool
}

// Board is safe for concurrent use
type Board struct {
	mu     sync.RWMutex
	router Router
	opts   Options
	state  State
}

// New returns a board routing with r
func New(r Router, opts Options) *Board {
	return &Board{
		router: r,
		opts:   opts,
		state: State{
			Curves:    cloneCurves(opts.Obstacles),
			Obstacles: len(opts.Obstacles),
		},
	}
}

// Dispatch applies an action
func (b *Board) Dispatch(action Action) (Outcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		out Outcome
		err error
	)
	switch a := action.(type) {
	case PinPoint:
		out, err = b.pin(geom.Vec(a.X, a.Y))
	case Connect:
		if !a.A.IsFinite() || !a.B.IsFinite() {
			return b.outcome(), ErrInvalidPoint
		}
		if len(b.state.Pins)%2 == 1 {
			// drop the dangling pin so the pair lines up
			b.state.Pins = b.state.Pins[:len(b.state.Pins)-1]
		}
		if _, err = b.pin(a.A); err == nil {
			out, err = b.pin(a.B)
		}
	case ClearBoard:
		out, err = b.clear()
	default:
		return b.outcome(), fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	return out, err
}

func (b *Board) pin(p geom.Vector) (Outcome, error) {
	if !p.IsFinite() {
		return b.outcome(), ErrInvalidPoint
	}

	b.state.Pins = append(b.state.Pins, p)
	n := len(b.state.Pins)
	if n%2 != 0 {
		return b.outcome(), nil
	}

	a, c := b.state.Pins[n-2], b.state.Pins[n-1]
	out := b.outcome()
	out.Paired = true
	if a == c {
		return out, ErrDegenerateSegment
	}

	log.Printf("📍 Routing %v -> %v around %d curves\n", a, c, len(b.state.Curves))
	curve, ok := b.router.FindNonIntersectingCurve(a, c, b.state.Curves)
	if !ok || curve.IsEmpty() {
		log.Println("❌ No non-intersecting curve found")
		return out, nil
	}

	b.state.Curves = append(b.state.Curves, curve)
	out = b.outcome()
	out.Paired = true
	out.Routed = true
	out.Curve = curve.Clone()
	return out, nil
}

func (b *Board) clear() (Outcome, error) {
	cleared := len(b.state.Curves)
	b.state = State{}
	if b.opts.KeepObstacles {
		b.state.Curves = cloneCurves(b.opts.Obstacles)
		b.state.Obstacles = len(b.opts.Obstacles)
	}
	cleared -= len(b.state.Curves)

	log.Printf("🧹 Board cleared, %d curves removed\n", cleared)

	out := b.outcome()
	out.Cleared = cleared
	return out, nil
}

func (b *Board) outcome() Outcome {
	return Outcome{Pins: len(b.state.Pins), Curves: len(b.state.Curves)}
}

// Snapshot returns a deep copy of the board state
func (b *Board) Snapshot() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return State{
		Pins:      append([]geom.Vector(nil), b.state.Pins...),
		Curves:    cloneCurves(b.state.Curves),
		Obstacles: b.state.Obstacles,
	}
}

func cloneCurves(curves []geom.Curve) []geom.Curve {
	if len(curves) == 0 {
		return nil
	}
	out := make([]geom.Curve, len(curves))
	for i, c := range curves {
		out[i] = c.Clone()
	}
	return out
}
