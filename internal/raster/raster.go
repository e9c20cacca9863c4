// Package raster draws a board snapshot into an image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"lines-drawer/internal/board"
	"lines-drawer/internal/geom"
)

// Canvas is the output size in pixels. Board coordinates map to pixels 1:1.
type Canvas struct {
	Width       int
	Height      int
	StrokeWidth float64
}

var (
	Background    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ObstacleColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
	CurveColor    = color.RGBA{0x1f, 0x4e, 0xd8, 0xff}
	PinColor      = color.RGBA{0xd8, 0x1f, 0x1f, 0xff}
)

// pinSize is the side of a pin marker in pixels
const pinSize = 4

// Render draws curves as stroked segments and pins as squares
func Render(state board.State, c Canvas) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	if c.Width <= 0 || c.Height <= 0 {
		return img
	}

	r := vector.NewRasterizer(c.Width, c.Height)
	half := c.StrokeWidth / 2
	if half <= 0 {
		half = 0.5
	}

	for i, curve := range state.Curves {
		src := CurveColor
		if i < state.Obstacles {
			src = ObstacleColor
		}
		for _, s := range curve.Segments {
			strokeSegment(img, r, s, half, src)
		}
	}

	for _, p := range state.Pins {
		if !p.IsFinite() {
			continue
		}
		d := geom.Vec(pinSize/2, pinSize/2)
		fill(img, r, []geom.Vector{
			p.Sub(d),
			geom.Vec(p.X+d.X, p.Y-d.Y),
			p.Add(d),
			geom.Vec(p.X-d.X, p.Y+d.Y),
		}, PinColor)
	}
	return img
}

// strokeSegment fills the quad around s. Each quad is drawn on its own so
// overlapping strokes do not cancel out under the nonzero winding rule.
func strokeSegment(img *image.RGBA, r *vector.Rasterizer, s geom.Segment, half float64, src color.Color) {
	v := s.Vector()
	if !s.Start.IsFinite() || !s.End.IsFinite() || v.Length() == 0 {
		return
	}
	n := geom.Vec(-v.Y, v.X).NormalizeTo(half)
	fill(img, r, []geom.Vector{
		s.Start.Add(n),
		s.End.Add(n),
		s.End.Sub(n),
		s.Start.Sub(n),
	}, src)
}

func fill(img *image.RGBA, r *vector.Rasterizer, quad []geom.Vector, src color.Color) {
	b := img.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(float32(quad[0].X), float32(quad[0].Y))
	for _, p := range quad[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(src), image.Point{})
}

// EncodePNG writes img as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
