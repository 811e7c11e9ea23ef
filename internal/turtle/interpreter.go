// Package turtle interprets a signature as stack-based turtle graphics.
package turtle

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/ports"
)

// Params are the inputs of a single interpretation pass.
type Params struct {
	// X and Y locate the drawing anchor in surface coordinates.
	X, Y float64
	// BranchLength is the trunk segment length; deeper levels divide it.
	BranchLength float64
	// Iterations is the expansion depth of the signature, used to size leaves.
	Iterations int
	// Angle is the base turn angle in degrees.
	Angle float64
	// Noise enables angle and leaf-tint jitter drawn from Source.
	Noise  bool
	Source ports.NoiseSource
}

// Result describes what a pass did.
type Result struct {
	domain.Stats
	// Pruned counts sub-branches skipped because they exceeded the depth limit.
	Pruned int
}

// Interpreter walks signatures. It holds no per-draw state and can be reused.
type Interpreter struct {
	logger   *slog.Logger
	maxDepth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for per-draw diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithMaxDepth prunes any sub-branch that would nest deeper than depth.
// Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret performs one left-to-right walk of sig on s.
// The surface transform is reset to identity before returning, including
// when the surface panics; the panic is then reported as an error.
func (in *Interpreter) Interpret(sig string, s ports.Surface, p Params) (res Result, err error) {
	if s == nil {
		return res, domain.ErrNilSurface
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface failed during draw: %v", r)
		}
		s.SetTransformIdentity()
	}()

	res.Stats = domain.Analyze(sig)
	maxLevel := res.Stats.MaxDepth

	s.Translate(p.X, p.Y)
	s.Rotate(math.Pi)

	st := walker{
		surface:  s,
		params:   p,
		maxLevel: maxLevel,
		level:    1,
		leafSize: LeafSize(p.Iterations, p.BranchLength),
	}

	for i := 0; i < len(sig); i++ {
		switch sig[i] {
		case domain.SymbolForward:
			st.forward()
		case domain.SymbolLeaf:
			st.leaf()
		case domain.SymbolPush:
			if in.maxDepth > 0 && st.stack.depth() >= in.maxDepth {
				i = skipBranch(sig, i)
				res.Pruned++
				continue
			}
			st.level++
			st.stack.push(frame{level: st.level, pos: i})
			s.Save()
		case domain.SymbolPop:
			f, ok := st.stack.pop()
			if !ok {
				// Nothing to restore; an unmatched close is ignored.
				continue
			}
			s.Restore()
			st.level = f.level - 1
		case domain.SymbolTurnRight:
			st.turn(1)
		case domain.SymbolTurnLeft:
			st.turn(-1)
		}
	}

	if st.stack.depth() > 0 {
		in.logger.Debug("branches left open", "count", st.stack.depth(), "first_at", st.stack.frames[0].pos)
	}
	in.logger.Debug("signature drawn",
		"length", res.Length,
		"segments", res.Segments,
		"leaves", res.Leaves,
		"max_depth", maxLevel,
		"unmatched_close", res.UnmatchedClose,
		"unclosed_open", st.stack.depth(),
		"pruned", res.Pruned,
	)
	return res, nil
}

// walker is the DrawState of one pass.
type walker struct {
	surface  ports.Surface
	params   Params
	stack    stack
	maxLevel int
	level    int
	leafSize float64
}

func (w *walker) forward() {
	s := w.surface
	length := SegmentLength(w.params.BranchLength, w.level)
	raw := RawSegmentWidth(w.maxLevel, w.level)
	color := BranchColor
	color.A = SegmentAlpha(w.maxLevel, w.level)

	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(0, length)
	s.SetStrokeStyle(color)
	s.SetLineWidth(math.Max(0, raw))
	s.SetLineCap(ports.LineCapRound)
	s.Stroke()
	s.Translate(0, length+raw/2)
}

func (w *walker) leaf() {
	s := w.surface
	size := w.leafSize
	green := uint8(leafBaseGreen)
	if w.params.Noise && w.params.Source != nil {
		green = LeafGreen(w.params.Source.Float64())
	}

	s.Save()
	s.Translate(0, -2*size)
	s.MoveTo(0, 0)
	s.Scale(1, 2)
	s.BeginPath()
	s.Arc(0, 0, size, 0, 2*math.Pi, false)
	s.SetFillStyle(ports.RGBA{G: green, A: 1})
	s.Fill()
	s.Restore()
}

func (w *walker) turn(sign float64) {
	angle := w.params.Angle
	if w.params.Noise && w.params.Source != nil {
		angle = JitterAngle(angle, w.params.Source.Float64())
	}
	w.surface.MoveTo(0, 0)
	w.surface.Rotate(sign * radians(angle))
}

// skipBranch returns the index of the bracket closing the branch opened at
// open, or the last index when the branch is never closed.
func skipBranch(sig string, open int) int {
	depth := 0
	for i := open; i < len(sig); i++ {
		switch sig[i] {
		case domain.SymbolPush:
			depth++
		case domain.SymbolPop:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(sig) - 1
}
