package planner

import (
	"math"

	"github.com/ivlev/stabilize/internal/motion"
)

// fillScale approximates the smallest uniform zoom that, combined with m,
// guarantees the warped output has no uncovered border. It composes two
// independent margins — the extra reach a rotation by alpha
// demands at the output corners, and the extra reach a shift demands along
// each axis — and removes what the correction's own scale already buys
// back. This is an approximation, not an exact corner-by-corner solve; it
// errs toward slightly more zoom rather than under-covering.
func fillScale(m motion.Motion, workW, workH float64) float64 {
	rot := 1 / math.Cos(m.Alpha)
	if rot < 1 {
		rot = 1
	}
	shiftFactor := 1.0
	if workW > 0 {
		if f := 1 + 2*math.Abs(m.Shift.X)/workW; f > shiftFactor {
			shiftFactor = f
		}
	}
	if workH > 0 {
		if f := 1 + 2*math.Abs(m.Shift.Y)/workH; f > shiftFactor {
			shiftFactor = f
		}
	}
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	return rot * shiftFactor / scale
}
