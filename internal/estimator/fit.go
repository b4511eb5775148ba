package estimator

import (
	"math"
	"sort"

	"github.com/ivlev/stabilize/internal/motion"
)

// fitSimilarity solves the weighted closed-form 2-D similarity (Procrustes,
// no reflection) fit between block centers and their matched points:
// q = Scale*Rotate(Alpha)*p + Shift, minimizing sum(w*|residual|^2). This is
// the standard weighted-centroid/covariance solution; see DESIGN.md for why
// it stays on the standard library instead of a linear-algebra dependency.
func fitSimilarity(pts []correspondence) motion.Motion {
	var sw, xc, yc, qxc, qyc float64
	for _, p := range pts {
		sw += p.weight
		xc += p.weight * p.x
		yc += p.weight * p.y
		qxc += p.weight * p.qx
		qyc += p.weight * p.qy
	}
	if sw <= 0 {
		return motion.Identity()
	}
	xc /= sw
	yc /= sw
	qxc /= sw
	qyc /= sw

	var sxx, sxy, sdenom float64
	for _, p := range pts {
		x, y := p.x-xc, p.y-yc
		qx, qy := p.qx-qxc, p.qy-qyc
		sxx += p.weight * (x*qx + y*qy)
		sxy += p.weight * (x*qy - y*qx)
		sdenom += p.weight * (x*x + y*y)
	}
	if sdenom <= 0 {
		return motion.Motion{Shift: motion.Vec2{X: qxc - xc, Y: qyc - yc}, Scale: 1}
	}

	a := sxx / sdenom
	b := sxy / sdenom
	scale := math.Hypot(a, b)
	alpha := math.Atan2(b, a)

	tx := qxc - (a*xc - b*yc)
	ty := qyc - (b*xc + a*yc)

	return motion.Motion{Shift: motion.Vec2{X: tx, Y: ty}, Scale: scale, Alpha: alpha}
}

// residual returns a correspondence's distance between its matched point
// and the point the fitted motion predicts.
func residual(m motion.Motion, c correspondence) float64 {
	p := m.Apply(motion.Vec2{X: c.x, Y: c.y})
	dx, dy := p.X-c.qx, p.Y-c.qy
	return math.Hypot(dx, dy)
}

// fitWithOutlierRejection fits, then for `passes` rounds drops the worst
// `dropFraction` of correspondences by residual and refits. Returns the
// final motion and the surviving weight fraction (confidence's basis before
// clamping).
func fitWithOutlierRejection(pts []correspondence, passes int, dropFraction float64) (motion.Motion, float64) {
	current := make([]correspondence, len(pts))
	copy(current, pts)

	var totalWeight float64
	for _, p := range pts {
		totalWeight += p.weight
	}

	m := fitSimilarity(current)
	for pass := 0; pass < passes && len(current) > 4; pass++ {
		sort.Slice(current, func(i, j int) bool {
			return residual(m, current[i]) < residual(m, current[j])
		})
		keep := len(current) - int(float64(len(current))*dropFraction)
		if keep < 4 {
			keep = 4
		}
		current = current[:keep]
		m = fitSimilarity(current)
	}

	var survivingWeight float64
	for _, p := range current {
		survivingWeight += p.weight
	}
	if totalWeight <= 0 {
		return m, 0
	}
	return m, survivingWeight / totalWeight
}
