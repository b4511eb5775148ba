// Package motion defines the core value types shared by every stage of the
// stabilization pipeline: the 2-D similarity transform (Motion), its
// immutable configuration (Params), and the ignore-rectangle type used to
// exclude regions from the block-matching fit.
package motion

import "math"

// Vec2 is a 2-D real-valued displacement, in work-frame pixels unless noted
// otherwise.
type Vec2 struct {
	X, Y float64
}

// Motion is a 2-D similarity transform: uniform scale, small rotation, and a
// shift, plus a confidence score in [0, 1]. A Motion maps a point p to
// Scale*Rotate(Alpha)*p + Shift.
type Motion struct {
	Shift      Vec2
	Scale      float64
	Alpha      float64
	Confidence float64
}

// Identity returns the zero motion: no shift, unit scale, no rotation, zero
// confidence (matching the Estimator's first-frame contract).
func Identity() Motion {
	return Motion{Scale: 1}
}

// IsSceneCut reports whether this Motion signals a scene cut, i.e. zero
// confidence.
func (m Motion) IsSceneCut() bool {
	return m.Confidence <= 0
}

func rotate(alpha float64, v Vec2) Vec2 {
	s, c := math.Sin(alpha), math.Cos(alpha)
	return Vec2{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Then composes two motions applied in sequence: self first, then n. The
// result satisfies result.Apply(p) == n.Apply(self.Apply(p)). This is the
// operation the Trajectory Smoother uses to build the cumulative path
// C_t = C_{t-1}.Then(motion_t).
func (m Motion) Then(n Motion) Motion {
	scale := m.Scale * n.Scale
	alpha := wrapAngle(m.Alpha + n.Alpha)
	rs := rotate(n.Alpha, m.Shift)
	shift := Vec2{
		X: n.Scale*rs.X + n.Shift.X,
		Y: n.Scale*rs.Y + n.Shift.Y,
	}
	return Motion{Shift: shift, Scale: scale, Alpha: alpha, Confidence: math.Min(m.Confidence, n.Confidence)}
}

// Inverse returns the motion that undoes self: self.Then(self.Inverse()) is
// the identity up to numeric tolerance.
func (m Motion) Inverse() Motion {
	invScale := 1 / m.Scale
	invAlpha := -m.Alpha
	rt := rotate(invAlpha, m.Shift)
	return Motion{
		Shift:      Vec2{X: -invScale * rt.X, Y: -invScale * rt.Y},
		Scale:      invScale,
		Alpha:      invAlpha,
		Confidence: m.Confidence,
	}
}

// Apply maps a point through the transform, pivoting at the origin. Used by
// tests and by components that reason about motion in abstract path space
// rather than about a specific image's pixel grid (the Warper pivots at the
// image center instead; see internal/warp).
func (m Motion) Apply(p Vec2) Vec2 {
	r := rotate(m.Alpha, p)
	return Vec2{X: m.Scale*r.X + m.Shift.X, Y: m.Scale*r.Y + m.Shift.Y}
}

// ApproxEqual reports whether two motions agree within eps on every
// component, used by identity-preservation and round-trip tests.
func (m Motion) ApproxEqual(n Motion, eps float64) bool {
	return math.Abs(m.Shift.X-n.Shift.X) <= eps &&
		math.Abs(m.Shift.Y-n.Shift.Y) <= eps &&
		math.Abs(m.Scale-n.Scale) <= eps &&
		math.Abs(wrapAngle(m.Alpha-n.Alpha)) <= eps
}
