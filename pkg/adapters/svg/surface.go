// Package svg provides a Surface that renders to a standalone SVG document.
//
// Path points are mapped to device space as they are added, matching canvas
// semantics, so the emitted document carries no transforms. The document
// itself is written with svgo.
package svg

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/aretw0/ltree/internal/affine"
	"github.com/aretw0/ltree/pkg/ports"
)

type state struct {
	matrix    affine.Matrix
	stroke    ports.RGBA
	fill      ports.RGBA
	lineWidth float64
	lineCap   ports.LineCap
}

// Surface implements ports.Surface by accumulating SVG path elements.
type Surface struct {
	width, height float64
	background    *ports.RGBA
	precision     int

	cur      state
	stack    []state
	path     strings.Builder
	hasPoint bool
	elements []element
}

// element is one painted path: its data and presentation attributes.
type element struct {
	d     string
	attrs []string
}

var _ ports.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground fills the document with c before any drawing.
func WithBackground(c ports.RGBA) Option {
	return func(s *Surface) { s.background = &c }
}

// WithPrecision sets the number of decimals written for coordinates.
func WithPrecision(decimals int) Option {
	return func(s *Surface) {
		if decimals >= 0 {
			s.precision = decimals
		}
	}
}

// New creates an empty document of the given size.
func New(width, height float64, opts ...Option) *Surface {
	s := &Surface{
		width:     width,
		height:    height,
		precision: 2,
		cur:       defaultState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultState() state {
	black := ports.RGBA{A: 1}
	return state{
		matrix:    affine.Identity(),
		stroke:    black,
		fill:      black,
		lineWidth: 1,
		lineCap:   ports.LineCapButt,
	}
}

func (s *Surface) Width() float64  { return s.width }
func (s *Surface) Height() float64 { return s.height }

// Elements returns the number of painted elements.
func (s *Surface) Elements() int { return len(s.elements) }

func (s *Surface) Translate(dx, dy float64) { s.cur.matrix = s.cur.matrix.Translate(dx, dy) }
func (s *Surface) Rotate(radians float64)   { s.cur.matrix = s.cur.matrix.Rotate(radians) }
func (s *Surface) Scale(sx, sy float64)     { s.cur.matrix = s.cur.matrix.Scale(sx, sy) }
func (s *Surface) SetTransformIdentity()    { s.cur.matrix = affine.Identity() }

func (s *Surface) Save() { s.stack = append(s.stack, s.cur) }

// Restore pops the saved state. An empty stack is a no-op.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) BeginPath() {
	s.path.Reset()
	s.hasPoint = false
}

func (s *Surface) MoveTo(x, y float64) {
	s.command('M', s.device(x, y))
	s.hasPoint = true
}

func (s *Surface) LineTo(x, y float64) {
	if !s.hasPoint {
		s.MoveTo(x, y)
		return
	}
	s.command('L', s.device(x, y))
}

func (s *Surface) Arc(cx, cy, radius, startAngle, endAngle float64, counterClockwise bool) {
	if radius < 0 || math.IsNaN(radius) {
		return
	}
	end := affine.ArcSweep(startAngle, endAngle, counterClockwise)
	first, segments := affine.ArcBeziers(cx, cy, radius, startAngle, end)
	if s.hasPoint {
		s.command('L', s.device(first[0], first[1]))
	} else {
		s.command('M', s.device(first[0], first[1]))
		s.hasPoint = true
	}
	for _, seg := range segments {
		s.command('C', s.device(seg[0][0], seg[0][1]), s.device(seg[1][0], seg[1][1]), s.device(seg[2][0], seg[2][1]))
	}
}

func (s *Surface) SetStrokeStyle(c ports.RGBA) { s.cur.stroke = c }
func (s *Surface) SetFillStyle(c ports.RGBA)   { s.cur.fill = c }

// SetLineWidth ignores non-positive and non-finite widths, as canvas does.
func (s *Surface) SetLineWidth(w float64) {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return
	}
	s.cur.lineWidth = w
}

func (s *Surface) SetLineCap(c ports.LineCap) {
	switch c {
	case ports.LineCapButt, ports.LineCapRound, ports.LineCapSquare:
		s.cur.lineCap = c
	}
}

func (s *Surface) Stroke() {
	if s.path.Len() == 0 || s.cur.stroke.A <= 0 {
		return
	}
	attrs := []string{`fill="none"`, `stroke="` + rgb(s.cur.stroke) + `"`}
	if s.cur.stroke.A < 1 {
		attrs = append(attrs, `stroke-opacity="`+s.num(s.cur.stroke.A)+`"`)
	}
	attrs = append(attrs, `stroke-width="`+s.num(s.cur.lineWidth*s.cur.matrix.ScaleFactor())+`"`)
	if s.cur.lineCap != ports.LineCapButt {
		attrs = append(attrs, `stroke-linecap="`+string(s.cur.lineCap)+`"`)
	}
	s.elements = append(s.elements, element{d: s.path.String(), attrs: attrs})
}

func (s *Surface) Fill() {
	if s.path.Len() == 0 || s.cur.fill.A <= 0 {
		return
	}
	attrs := []string{`fill="` + rgb(s.cur.fill) + `"`}
	if s.cur.fill.A < 1 {
		attrs = append(attrs, `fill-opacity="`+s.num(s.cur.fill.A)+`"`)
	}
	s.elements = append(s.elements, element{d: s.path.String(), attrs: attrs})
}

// WriteTo writes the complete SVG document. Width and height are rounded up
// to whole user units.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	doc := svgo.New(cw)
	vw, vh := int(math.Ceil(s.width)), int(math.Ceil(s.height))
	doc.Startview(vw, vh, 0, 0, vw, vh)
	if s.background != nil {
		attrs := []string{`fill="` + rgb(*s.background) + `"`}
		if s.background.A < 1 {
			attrs = append(attrs, `fill-opacity="`+s.num(s.background.A)+`"`)
		}
		doc.Rect(0, 0, vw, vh, attrs...)
	}
	for _, el := range s.elements {
		doc.Path(el.d, el.attrs...)
	}
	doc.End()
	return cw.n, cw.err
}

// countingWriter tracks bytes written and keeps the first error, since svgo
// discards write errors.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var b bytes.Buffer
	_, _ = s.WriteTo(&b)
	return b.Bytes()
}

// Reset clears drawn elements and state, keeping size and options.
func (s *Surface) Reset() {
	s.elements = s.elements[:0]
	s.stack = s.stack[:0]
	s.cur = defaultState()
	s.BeginPath()
}

func (s *Surface) device(x, y float64) [2]float64 {
	dx, dy := s.cur.matrix.Apply(x, y)
	return [2]float64{dx, dy}
}

func (s *Surface) command(op byte, pts ...[2]float64) {
	if s.path.Len() > 0 {
		s.path.WriteByte(' ')
	}
	s.path.WriteByte(op)
	for i, p := range pts {
		if i > 0 {
			s.path.WriteByte(' ')
		}
		s.path.WriteString(s.num(p[0]))
		s.path.WriteByte(',')
		s.path.WriteString(s.num(p[1]))
	}
}

func (s *Surface) num(v float64) string {
	out := strconv.FormatFloat(v, 'f', s.precision, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	if out == "-0" {
		return "0"
	}
	return out
}

func rgb(c ports.RGBA) string {
	return "rgb(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," + strconv.Itoa(int(c.B)) + ")"
}
