// Package estimator tiles the previous work-frame into a grid, finds each
// block's best integer displacement by sum-of-absolute-differences search,
// refines to sub-pixel accuracy, then fits a 2-D similarity transform to
// the weighted correspondences with iterative outlier rejection.
package estimator

import (
	"github.com/ivlev/stabilize/internal/motion"
)

// Estimator holds the previous work-frame and the scratch correspondence
// buffer it reuses every call.
type Estimator struct {
	params motion.Params
	ignore []motion.IgnoreRect

	prev    *motion.WorkFrame
	corrBuf []correspondence
}

// New constructs an Estimator. ignore rectangles must already be in
// work-frame coordinates (see motion.IgnoreRect.Scaled).
func New(params motion.Params, ignore []motion.IgnoreRect) *Estimator {
	return &Estimator{params: params, ignore: ignore}
}

// correspondence is one block's matched point pair plus its fit weight.
type correspondence struct {
	x, y   float64 // block center, prev frame
	qx, qy float64 // matched point, curr frame
	weight float64
}

// Estimate computes the Motion describing prev -> curr. The first call
// always returns the identity with confidence 0.
func (e *Estimator) Estimate(curr *motion.WorkFrame) motion.Motion {
	if e.prev == nil {
		e.prev = curr.Clone(nil)
		return motion.Identity()
	}
	defer func() { e.prev = curr.Clone(e.prev) }()

	if curr.Width < 3*e.params.BlockSize || curr.Height < 3*e.params.BlockSize {
		return e.estimateShiftOnly(curr)
	}

	e.corrBuf = e.corrBuf[:0]
	e.corrBuf = e.collectCorrespondences(curr, e.corrBuf)
	if len(e.corrBuf) == 0 {
		return motion.Identity()
	}

	m, inlierFraction := fitWithOutlierRejection(e.corrBuf, 2, 0.2)
	return e.clampAndScore(m, inlierFraction)
}

// estimateShiftOnly handles the small-frame edge case: a single block
// covering the frame inset by the search range on every side, shift-only
// (no scale/rotation degrees of freedom available from one
// correspondence).
func (e *Estimator) estimateShiftOnly(curr *motion.WorkFrame) motion.Motion {
	maxShift := e.params.MaxShift
	if maxShift > (e.prev.Width-1)/2 {
		maxShift = (e.prev.Width - 1) / 2
	}
	if maxShift > (e.prev.Height-1)/2 {
		maxShift = (e.prev.Height - 1) / 2
	}
	if maxShift < 0 {
		return motion.Identity()
	}
	bw, bh := e.prev.Width-2*maxShift, e.prev.Height-2*maxShift

	dx, dy, _, ok := bestIntegerShift(e.prev, curr, maxShift, maxShift, bw, bh, maxShift)
	if !ok {
		return motion.Identity()
	}
	return motion.Motion{Shift: motion.Vec2{X: float64(dx), Y: float64(dy)}, Scale: 1, Confidence: 1}
}

// collectCorrespondences tiles the previous frame into a block grid,
// excluding ignored/border blocks, and appends one correspondence per
// surviving block to out.
func (e *Estimator) collectCorrespondences(curr *motion.WorkFrame, out []correspondence) []correspondence {
	bs := e.params.BlockSize
	maxShift := e.params.MaxShift

	for by := maxShift; by+bs+maxShift <= e.prev.Height; by += bs {
		for bx := maxShift; bx+bs+maxShift <= e.prev.Width; bx += bs {
			if e.blockIgnored(bx, by, bs) {
				continue
			}
			dx, dy, sadVals, ok := bestIntegerShiftRefined(e.prev, curr, bx, by, bs, bs, maxShift)
			if !ok {
				continue
			}
			w := steepnessWeight(sadVals)
			if w <= 0 {
				continue
			}
			cx := float64(bx) + float64(bs)/2
			cy := float64(by) + float64(bs)/2
			out = append(out, correspondence{
				x: cx, y: cy,
				qx: cx + dx, qy: cy + dy,
				weight: w,
			})
		}
	}
	return out
}

func (e *Estimator) blockIgnored(bx, by, bs int) bool {
	for _, r := range e.ignore {
		if r.Intersects(bx, by, bs, bs) {
			return true
		}
	}
	return false
}

// clampAndScore applies the rotation/scale clamps and derives the
// confidence score, folding clamp engagement and low inlier fraction into a
// scene-cut signal.
func (e *Estimator) clampAndScore(m motion.Motion, inlierFraction float64) motion.Motion {
	clamped := false
	if m.Alpha > e.params.MaxAlpha {
		m.Alpha = e.params.MaxAlpha
		clamped = true
	} else if m.Alpha < -e.params.MaxAlpha {
		m.Alpha = -e.params.MaxAlpha
		clamped = true
	}
	maxScale := e.params.MaxScale
	if maxScale < 1 {
		maxScale = 1
	}
	minScale := 1 / maxScale
	if m.Scale > maxScale {
		m.Scale = maxScale
		clamped = true
	} else if m.Scale < minScale {
		m.Scale = minScale
		clamped = true
	}

	if clamped || inlierFraction < e.params.SceneCutThreshold {
		m.Confidence = 0
		return m
	}
	m.Confidence = inlierFraction
	return m
}
