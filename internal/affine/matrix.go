// Package affine implements the 2D affine transforms used by drawing surfaces
// that do not track transforms themselves.
package affine

import "math"

// Matrix follows the HTML canvas convention:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Multiply returns m × n, i.e. n applied first in m's frame.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Translate composes a translation in the local frame.
func (m Matrix) Translate(dx, dy float64) Matrix {
	return m.Multiply(Matrix{A: 1, D: 1, E: dx, F: dy})
}

// Rotate composes a clockwise (screen space) rotation in the local frame.
func (m Matrix) Rotate(radians float64) Matrix {
	sin, cos := math.Sincos(radians)
	return m.Multiply(Matrix{A: cos, B: sin, C: -sin, D: cos})
}

// Scale composes a scale in the local frame.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Multiply(Matrix{A: sx, D: sy})
}

// Apply maps a local point to device space.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ScaleFactor is the geometric mean scale of the transform, used to map line
// widths to device space.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ArcSweep normalizes canvas arc angles so that sweeping linearly from start
// to the returned end follows the requested direction. Sweeps of a full turn
// or more are clamped to exactly one turn.
func ArcSweep(start, end float64, counterClockwise bool) float64 {
	const turn = 2 * math.Pi
	if !counterClockwise {
		if end-start >= turn {
			return start + turn
		}
		d := math.Mod(end-start, turn)
		if d < 0 {
			d += turn
		}
		return start + d
	}
	if start-end >= turn {
		return start - turn
	}
	d := math.Mod(start-end, turn)
	if d < 0 {
		d += turn
	}
	return start - d
}

// ArcBeziers splits a circular arc into cubic Bézier segments of at most a
// quarter turn each. Each segment is returned as its three control points
// after the implicit start point (c1, c2, end), in local coordinates.
// The first point of the arc is returned separately.
func ArcBeziers(cx, cy, r, start, end float64) (first [2]float64, segments [][3][2]float64) {
	sweep := end - start
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if n == 0 {
		n = 1
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(a float64) [2]float64 {
		return [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}

	first = point(start)
	a0 := start
	for i := 0; i < n; i++ {
		a1 := a0 + step
		p0, p3 := point(a0), point(a1)
		c1 := [2]float64{p0[0] - k*r*math.Sin(a0), p0[1] + k*r*math.Cos(a0)}
		c2 := [2]float64{p3[0] + k*r*math.Sin(a1), p3[1] - k*r*math.Cos(a1)}
		segments = append(segments, [3][2]float64{c1, c2, p3})
		a0 = a1
	}
	return first, segments
}
