// Package planner takes a segment of smoothed corrections, re-centers
// rotation and translation, and picks a per-frame zoom large enough to
// keep the warped frame fully covered, rate-limited so the zoom itself
// never jumps.
package planner

import "github.com/ivlev/stabilize/internal/motion"

// Config holds the autozoom knobs: Prezoom is the floor zoom always
// applied, ZoomSpeed bounds the two-pass per-frame zoom ratio,
// ZoomDecrement bounds the one-pass dynamic per-frame zoom decrease. The
// two are deliberately kept as separate fields — ZoomSpeed multiplies,
// ZoomDecrement subtracts — rather than one overloaded knob; see
// DESIGN.md.
type Config struct {
	Prezoom       float64
	ZoomSpeed     float64
	ZoomDecrement float64
}

// PlannedFrame pairs a re-centered correction with the zoom to apply
// alongside it, ready for the Warper.
type PlannedFrame struct {
	Correction motion.Motion
	Zoom       float64
}

// PlanTwoPass runs the two-pass algorithm independently over every segment
// (scene cuts already split the stream) and returns one PlannedFrame slice
// per segment, in order.
func PlanTwoPass(segments [][]motion.Motion, workW, workH float64, cfg Config) [][]PlannedFrame {
	out := make([][]PlannedFrame, len(segments))
	for i, seg := range segments {
		out[i] = PlanSegment(seg, workW, workH, cfg)
	}
	return out
}

// PlanSegment plans the zoom and re-centered correction for one
// scene-cut-free segment.
func PlanSegment(corrections []motion.Motion, workW, workH float64, cfg Config) []PlannedFrame {
	if len(corrections) == 0 {
		return nil
	}
	centered := recenterRotation(corrections)
	centered = recenterTranslation(centered)

	zoom := make([]float64, len(centered))
	for t, m := range centered {
		zoom[t] = fillScale(m, workW, workH)
		if zoom[t] < cfg.Prezoom {
			zoom[t] = cfg.Prezoom
		}
	}
	limitZoomRate(zoom, cfg.ZoomSpeed)

	out := make([]PlannedFrame, len(centered))
	for t, m := range centered {
		out[t] = PlannedFrame{Correction: m, Zoom: zoom[t]}
	}
	return out
}

// recenterRotation offsets every correction's alpha by the segment's
// mid-range rotation, so the output canvas is pre-rotated rather than the
// zoom absorbing the whole rotational swing.
func recenterRotation(corrections []motion.Motion) []motion.Motion {
	minA, maxA := corrections[0].Alpha, corrections[0].Alpha
	for _, m := range corrections {
		if m.Alpha < minA {
			minA = m.Alpha
		}
		if m.Alpha > maxA {
			maxA = m.Alpha
		}
	}
	mid := (minA + maxA) / 2

	out := make([]motion.Motion, len(corrections))
	for i, m := range corrections {
		m.Alpha -= mid
		out[i] = m
	}
	return out
}

// recenterTranslation subtracts the per-segment shift extents' (min/max on
// each axis) midpoint from every frame's shift, so the window swings
// symmetrically around center instead of requiring extra zoom to absorb a
// one-sided drift.
func recenterTranslation(corrections []motion.Motion) []motion.Motion {
	xMin, xMax := corrections[0].Shift.X, corrections[0].Shift.X
	yMin, yMax := corrections[0].Shift.Y, corrections[0].Shift.Y
	for _, m := range corrections {
		if m.Shift.X < xMin {
			xMin = m.Shift.X
		}
		if m.Shift.X > xMax {
			xMax = m.Shift.X
		}
		if m.Shift.Y < yMin {
			yMin = m.Shift.Y
		}
		if m.Shift.Y > yMax {
			yMax = m.Shift.Y
		}
	}
	offX := (xMin + xMax) / 2
	offY := (yMin + yMax) / 2

	out := make([]motion.Motion, len(corrections))
	for i, m := range corrections {
		m.Shift.X -= offX
		m.Shift.Y -= offY
		out[i] = m
	}
	return out
}

// limitZoomRate runs a forward sweep enforcing
// z[t] >= z[t-1]/zoomSpeed, then a reverse sweep enforcing
// z[t] >= z[t+1]/zoomSpeed, so the zoom never changes faster than
// zoomSpeed per frame in either direction. zoomSpeed == 1 freezes the
// whole segment at its maximum required zoom (static mode).
func limitZoomRate(zoom []float64, zoomSpeed float64) {
	if zoomSpeed < 1 {
		zoomSpeed = 1
	}
	for t := 1; t < len(zoom); t++ {
		if floor := zoom[t-1] / zoomSpeed; zoom[t] < floor {
			zoom[t] = floor
		}
	}
	for t := len(zoom) - 2; t >= 0; t-- {
		if floor := zoom[t+1] / zoomSpeed; zoom[t] < floor {
			zoom[t] = floor
		}
	}
}

// PlanOnePass implements the one-pass dynamic variant: each frame's zoom
// is the largest of the floor, the previous frame's zoom
// decayed by zoomDecrement, and this frame's own fill requirement. prevZoom
// should be cfg.Prezoom for the first frame of a segment (callers reset it
// on scene cut, mirroring the Smoother's reset).
func PlanOnePass(correction motion.Motion, workW, workH, prevZoom float64, cfg Config) float64 {
	z := prevZoom - cfg.ZoomDecrement
	if need := fillScale(correction, workW, workH); need > z {
		z = need
	}
	if z < cfg.Prezoom {
		z = cfg.Prezoom
	}
	return z
}
