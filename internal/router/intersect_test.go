package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lines-drawer/internal/geom"
)

func seg(x1, y1, x2, y2 float64) geom.Segment {
	return geom.Seg(geom.Vec(x1, y1), geom.Vec(x2, y2))
}

func TestDetectSegmentsIntersection(t *testing.T) {
	horizontal := seg(0, 0, 10, 0)

	tests := []struct {
		name string
		a, b geom.Segment
		want bool
	}{
		{"crossing", seg(0, 0, 10, 10), seg(0, 10, 10, 0), true},
		{"far apart", seg(0, 0, 10, 0), seg(100, 100, 110, 130), false},
		{"parallel", horizontal, seg(0, 3, 10, 3), false},
		{"collinear overlapping", horizontal, seg(5, 0, 15, 0), true},
		{"collinear touching", horizontal, seg(10, 0, 20, 0), true},
		{"collinear disjoint", horizontal, seg(11, 0, 20, 0), false},
		{"collinear reversed", horizontal, seg(8, 0, -3, 0), true},
		{"near miss past end", horizontal, seg(13, -5, 13, 5), true},
		{"clear past end", horizontal, seg(16, -5, 16, 5), false},
		{"near miss before start", horizontal, seg(-4, -5, -4, 5), true},
		{"clear before start", horizontal, seg(-6, -5, -6, 5), false},
		{"T junction gap", horizontal, seg(5, 3, 5, 20), true},
		{"T junction clear", horizontal, seg(5, 6, 5, 20), false},
		{"blocked vertical", seg(25, 60, 75, 75), seg(50, 50, 50, 100), true},
		{"obstacle below", seg(20, 50, 50, 100), seg(20, 20, 50, 20), false},
		{"obstacle above", seg(20, 50, 50, 100), seg(20, 150, 150, 120), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSegmentsIntersection(tt.a, tt.b), "a x b")
			assert.Equal(t, tt.want, DetectSegmentsIntersection(tt.b, tt.a), "b x a")
		})
	}
}

func TestDetectSegmentsIntersectionWithItself(t *testing.T) {
	for _, s := range []geom.Segment{
		seg(0, 0, 10, 0),
		seg(50, 50, 50, 100),
		seg(-3, 7, 12, -40),
		seg(1e3, 1e3, 1e3+0.5, 1e3-0.25),
	} {
		assert.True(t, DetectSegmentsIntersection(s, s), "%v", s)
		assert.True(t, DetectSegmentsIntersection(s, s.Reverse()), "%v reversed", s)
	}
}

func TestKeepDistanceIsConfigurable(t *testing.T) {
	r, err := New(Options{KeepDistance: 1, Offset: DefaultOffset, DetourAngle: DefaultDetourAngle})
	if err != nil {
		t.Fatal(err)
	}

	a := seg(0, 0, 10, 0)
	b := seg(13, -5, 13, 5)
	assert.True(t, DetectSegmentsIntersection(a, b))
	assert.False(t, r.DetectSegmentsIntersection(a, b))
}
