package router

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"

	"lines-drawer/internal/geom"
)

// slack keeps boxes that only touch from being missed by the tree
const slack = 1e-6

var errNotFinite = errors.New("segment has non-finite coordinates")

// SegmentEntry wraps an obstacle segment for R-tree storage
type SegmentEntry struct {
	Segment geom.Segment
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *SegmentEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// SpatialIndex answers "does this segment hit any obstacle" queries.
// Obstacle boxes are grown by the keep distance so that every obstacle the
// tolerant detector could report is among the candidates of a query.
type SpatialIndex struct {
	tree         *rtreego.Rtree
	segments     []geom.Segment
	keepDistance float64
}

// NewSpatialIndex indexes every segment of the given curves
func NewSpatialIndex(curves []geom.Curve, keepDistance float64) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	idx := &SpatialIndex{tree: tree, keepDistance: keepDistance}

	for _, curve := range curves {
		for _, seg := range curve.Segments {
			idx.segments = append(idx.segments, seg)

			bbox, err := segmentBoundingBox(seg, keepDistance)
			if err != nil {
				// not representable as a box (NaN coordinates); checked by brute force
				continue
			}
			tree.Insert(&SegmentEntry{Segment: seg, BBox: bbox})
		}
	}

	return idx
}

// Len returns the number of indexed obstacle segments
func (si *SpatialIndex) Len() int {
	return len(si.segments)
}

// Segments returns the indexed obstacle segments in insertion order
func (si *SpatialIndex) Segments() []geom.Segment {
	return si.segments
}

// Candidates returns the obstacle segments whose grown box overlaps the grown
// box of seg
func (si *SpatialIndex) Candidates(seg geom.Segment) []geom.Segment {
	bbox, err := segmentBoundingBox(seg, si.keepDistance)
	if err != nil {
		return si.segments
	}

	results := si.tree.SearchIntersect(bbox)
	segments := make([]geom.Segment, 0, len(results))
	for _, item := range results {
		entry := item.(*SegmentEntry)
		segments = append(segments, entry.Segment)
	}
	return segments
}

// IsPathClear checks if a straight segment stays clear of every obstacle
func (si *SpatialIndex) IsPathClear(seg geom.Segment) bool {
	if si.tree.Size() != len(si.segments) {
		return si.isPathClearBruteForce(seg)
	}

	for _, obstacle := range si.Candidates(seg) {
		if detectIntersection(seg, obstacle, si.keepDistance) {
			return false
		}
	}
	return true
}

func (si *SpatialIndex) isPathClearBruteForce(seg geom.Segment) bool {
	for _, obstacle := range si.segments {
		if detectIntersection(seg, obstacle, si.keepDistance) {
			return false
		}
	}
	return true
}

// segmentBoundingBox computes the axis-aligned box of seg grown by margin
func segmentBoundingBox(seg geom.Segment, margin float64) (rtreego.Rect, error) {
	if !seg.Start.IsFinite() || !seg.End.IsFinite() {
		return rtreego.Rect{}, errNotFinite
	}

	minX := math.Min(seg.Start.X, seg.End.X) - margin - slack
	minY := math.Min(seg.Start.Y, seg.End.Y) - margin - slack
	maxX := math.Max(seg.Start.X, seg.End.X) + margin + slack
	maxY := math.Max(seg.Start.Y, seg.End.Y) + margin + slack

	return rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
}
