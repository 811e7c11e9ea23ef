// Package raster provides a Surface backed by fogleman/gg that renders to an
// in-memory RGBA image.
package raster

import (
	"image"
	"io"
	"math"

	"github.com/aretw0/ltree/internal/affine"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/fogleman/gg"
)

type style struct {
	stroke ports.RGBA
	fill   ports.RGBA
}

// Surface implements ports.Surface on a gg.Context. gg shares one colour
// between stroke and fill, so both are tracked here and applied on paint.
type Surface struct {
	dc     *gg.Context
	cur    style
	styles []style
}

var _ ports.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground clears the image to c.
func WithBackground(c ports.RGBA) Option {
	return func(s *Surface) {
		s.dc.SetRGBA(unit(c))
		s.dc.Clear()
	}
}

// New creates a transparent image of the given size in pixels.
func New(width, height int, opts ...Option) *Surface {
	black := ports.RGBA{A: 1}
	s := &Surface{
		dc:  gg.NewContext(width, height),
		cur: style{stroke: black, fill: black},
	}
	s.dc.SetLineCapButt()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Width() float64  { return float64(s.dc.Width()) }
func (s *Surface) Height() float64 { return float64(s.dc.Height()) }

// Image returns the rendered image.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// SavePNG writes the image to a PNG file.
func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }

func (s *Surface) Translate(dx, dy float64) { s.dc.Translate(dx, dy) }
func (s *Surface) Rotate(radians float64)   { s.dc.Rotate(radians) }
func (s *Surface) Scale(sx, sy float64)     { s.dc.Scale(sx, sy) }
func (s *Surface) SetTransformIdentity()    { s.dc.Identity() }

func (s *Surface) Save() {
	s.dc.Push()
	s.styles = append(s.styles, s.cur)
}

// Restore pops the saved state. An empty stack is a no-op; gg would panic.
func (s *Surface) Restore() {
	if len(s.styles) == 0 {
		return
	}
	s.dc.Pop()
	s.cur = s.styles[len(s.styles)-1]
	s.styles = s.styles[:len(s.styles)-1]
}

func (s *Surface) BeginPath()          { s.dc.ClearPath() }
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }

func (s *Surface) Arc(cx, cy, radius, startAngle, endAngle float64, counterClockwise bool) {
	if radius < 0 || math.IsNaN(radius) {
		return
	}
	s.dc.DrawArc(cx, cy, radius, startAngle, affine.ArcSweep(startAngle, endAngle, counterClockwise))
}

func (s *Surface) SetStrokeStyle(c ports.RGBA) { s.cur.stroke = c }
func (s *Surface) SetFillStyle(c ports.RGBA)   { s.cur.fill = c }

// SetLineWidth ignores non-positive and non-finite widths, as canvas does.
// gg strokes in device pixels, so the width is scaled by the current transform.
func (s *Surface) SetLineWidth(w float64) {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return
	}
	s.dc.SetLineWidth(w * s.scaleFactor())
}

func (s *Surface) SetLineCap(c ports.LineCap) {
	switch c {
	case ports.LineCapButt:
		s.dc.SetLineCapButt()
	case ports.LineCapRound:
		s.dc.SetLineCapRound()
	case ports.LineCapSquare:
		s.dc.SetLineCapSquare()
	}
}

func (s *Surface) Stroke() {
	s.dc.SetRGBA(unit(s.cur.stroke))
	s.dc.StrokePreserve()
}

func (s *Surface) Fill() {
	s.dc.SetRGBA(unit(s.cur.fill))
	s.dc.FillPreserve()
}

func (s *Surface) scaleFactor() float64 {
	x0, y0 := s.dc.TransformPoint(0, 0)
	x1, y1 := s.dc.TransformPoint(1, 0)
	x2, y2 := s.dc.TransformPoint(0, 1)
	det := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	return math.Sqrt(math.Abs(det))
}

func unit(c ports.RGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, math.Max(0, math.Min(1, c.A))
}
