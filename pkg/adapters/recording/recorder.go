// Package recording provides a Surface that captures drawing operations as
// commands which can be inspected, serialized or played back onto another
// Surface.
package recording

import (
	"fmt"

	"github.com/aretw0/ltree/pkg/ports"
)

// Op names a recorded Surface call.
type Op string

const (
	OpTranslate            Op = "translate"
	OpRotate               Op = "rotate"
	OpScale                Op = "scale"
	OpSetTransformIdentity Op = "setTransformIdentity"
	OpSave                 Op = "save"
	OpRestore              Op = "restore"
	OpBeginPath            Op = "beginPath"
	OpMoveTo               Op = "moveTo"
	OpLineTo               Op = "lineTo"
	OpArc                  Op = "arc"
	OpStrokeStyle          Op = "strokeStyle"
	OpLineWidth            Op = "lineWidth"
	OpLineCap              Op = "lineCap"
	OpStroke               Op = "stroke"
	OpFillStyle            Op = "fillStyle"
	OpFill                 Op = "fill"
)

// Command is one recorded call. Field names follow the HTML canvas API so a
// browser can replay the stream directly.
type Command struct {
	Op    Op            `json:"op"`
	Args  []float64     `json:"args,omitempty"`
	Color *ports.RGBA   `json:"color,omitempty"`
	Cap   ports.LineCap `json:"cap,omitempty"`
	CCW   bool          `json:"ccw,omitempty"`
}

// Recorder implements ports.Surface by appending a Command per call.
type Recorder struct {
	width, height float64
	commands      []Command
	depth         int
}

var _ ports.Surface = (*Recorder)(nil)

// NewRecorder creates a recorder reporting the given surface dimensions.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int { return len(r.commands) }

// Depth returns the number of Save calls not yet matched by a Restore.
func (r *Recorder) Depth() int { return r.depth }

// Reset discards all recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.depth = 0
}

func (r *Recorder) add(op Op, args ...float64) {
	r.commands = append(r.commands, Command{Op: op, Args: args})
}

func (r *Recorder) Translate(dx, dy float64) { r.add(OpTranslate, dx, dy) }
func (r *Recorder) Rotate(radians float64)   { r.add(OpRotate, radians) }
func (r *Recorder) Scale(sx, sy float64)     { r.add(OpScale, sx, sy) }
func (r *Recorder) SetTransformIdentity()    { r.add(OpSetTransformIdentity) }

func (r *Recorder) Save() {
	r.depth++
	r.add(OpSave)
}

func (r *Recorder) Restore() {
	if r.depth > 0 {
		r.depth--
	}
	r.add(OpRestore)
}

func (r *Recorder) BeginPath()          { r.add(OpBeginPath) }
func (r *Recorder) MoveTo(x, y float64) { r.add(OpMoveTo, x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add(OpLineTo, x, y) }

func (r *Recorder) Arc(cx, cy, radius, startAngle, endAngle float64, counterClockwise bool) {
	r.commands = append(r.commands, Command{
		Op:   OpArc,
		Args: []float64{cx, cy, radius, startAngle, endAngle},
		CCW:  counterClockwise,
	})
}

func (r *Recorder) SetStrokeStyle(c ports.RGBA) {
	r.commands = append(r.commands, Command{Op: OpStrokeStyle, Color: &c})
}

func (r *Recorder) SetLineWidth(w float64) { r.add(OpLineWidth, w) }

func (r *Recorder) SetLineCap(c ports.LineCap) {
	r.commands = append(r.commands, Command{Op: OpLineCap, Cap: c})
}

func (r *Recorder) Stroke() { r.add(OpStroke) }

func (r *Recorder) SetFillStyle(c ports.RGBA) {
	r.commands = append(r.commands, Command{Op: OpFillStyle, Color: &c})
}

func (r *Recorder) Fill() { r.add(OpFill) }

func (r *Recorder) Width() float64  { return r.width }
func (r *Recorder) Height() float64 { return r.height }

// Playback replays commands onto dst in order.
func Playback(commands []Command, dst ports.Surface) error {
	for i, c := range commands {
		if err := apply(c, dst); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}

func apply(c Command, dst ports.Surface) error {
	need := func(n int) error {
		if len(c.Args) < n {
			return fmt.Errorf("%s expects %d args, got %d", c.Op, n, len(c.Args))
		}
		return nil
	}

	switch c.Op {
	case OpTranslate, OpScale, OpMoveTo, OpLineTo:
		if err := need(2); err != nil {
			return err
		}
		a := c.Args
		switch c.Op {
		case OpTranslate:
			dst.Translate(a[0], a[1])
		case OpScale:
			dst.Scale(a[0], a[1])
		case OpMoveTo:
			dst.MoveTo(a[0], a[1])
		default:
			dst.LineTo(a[0], a[1])
		}
	case OpRotate, OpLineWidth:
		if err := need(1); err != nil {
			return err
		}
		if c.Op == OpRotate {
			dst.Rotate(c.Args[0])
		} else {
			dst.SetLineWidth(c.Args[0])
		}
	case OpArc:
		if err := need(5); err != nil {
			return err
		}
		a := c.Args
		dst.Arc(a[0], a[1], a[2], a[3], a[4], c.CCW)
	case OpStrokeStyle, OpFillStyle:
		if c.Color == nil {
			return fmt.Errorf("%s without color", c.Op)
		}
		if c.Op == OpStrokeStyle {
			dst.SetStrokeStyle(*c.Color)
		} else {
			dst.SetFillStyle(*c.Color)
		}
	case OpLineCap:
		dst.SetLineCap(c.Cap)
	case OpSetTransformIdentity:
		dst.SetTransformIdentity()
	case OpSave:
		dst.Save()
	case OpRestore:
		dst.Restore()
	case OpBeginPath:
		dst.BeginPath()
	case OpStroke:
		dst.Stroke()
	case OpFill:
		dst.Fill()
	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}
	return nil
}
