package ports

import (
	"fmt"
	"strconv"
)

// LineCap names a stroke end style.
type LineCap string

const (
	LineCapButt   LineCap = "butt"
	LineCapRound  LineCap = "round"
	LineCapSquare LineCap = "square"
)

// Surface is the capability set the turtle interpreter draws with.
// Transforms compose left to right: each call applies in the current local
// frame. Save and Restore push and pop the full transform and style state.
type Surface interface {
	Translate(dx, dy float64)
	Rotate(radians float64)
	Scale(sx, sy float64)
	SetTransformIdentity()

	Save()
	Restore()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, radius, startAngle, endAngle float64, counterClockwise bool)

	SetStrokeStyle(c RGBA)
	SetLineWidth(w float64)
	SetLineCap(c LineCap)
	Stroke()

	SetFillStyle(c RGBA)
	Fill()

	Width() float64
	Height() float64
}

// RGBA is a colour with 0-255 channels and an alpha in [0, 1].
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// CSS formats the colour as a CSS rgba() value.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'g', -1, 64))
}
