package estimator

import "github.com/ivlev/stabilize/internal/motion"

// sad computes the sum of absolute differences between a bw×bh block of
// prev at (bx,by) and the same-sized block of curr at (bx+dx,by+dy).
func sad(prev, curr *motion.WorkFrame, bx, by, bw, bh, dx, dy int) int {
	sum := 0
	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			a := int(prev.At(bx+x, by+y))
			b := int(curr.At(bx+dx+x, by+dy+y))
			if a > b {
				sum += a - b
			} else {
				sum += b - a
			}
		}
	}
	return sum
}

// bestIntegerShift performs an exhaustive integer search for |dx|,|dy| <=
// maxShift, returning the best displacement and its SAD.
func bestIntegerShift(prev, curr *motion.WorkFrame, bx, by, bw, bh, maxShift int) (bestDx, bestDy, bestSAD int, ok bool) {
	bestSAD = -1
	for dy := -maxShift; dy <= maxShift; dy++ {
		if by+dy < 0 || by+dy+bh > curr.Height {
			continue
		}
		for dx := -maxShift; dx <= maxShift; dx++ {
			if bx+dx < 0 || bx+dx+bw > curr.Width {
				continue
			}
			s := sad(prev, curr, bx, by, bw, bh, dx, dy)
			if bestSAD < 0 || s < bestSAD {
				bestSAD, bestDx, bestDy = s, dx, dy
				ok = true
			}
		}
	}
	return
}

// sadNeighborhood holds the SAD at the integer minimum and its four
// axis-aligned neighbors, used for parabolic sub-pixel refinement.
type sadNeighborhood struct {
	center, left, right, up, down int
}

// bestIntegerShiftRefined finds the best integer displacement and refines it
// to sub-pixel accuracy via parabolic fit along each axis independently. It
// returns the refined (dx,dy) as float64 offsets from the block center,
// plus the SAD neighborhood for the steepness weight.
func bestIntegerShiftRefined(prev, curr *motion.WorkFrame, bx, by, bw, bh, maxShift int) (dx, dy float64, nb sadNeighborhood, ok bool) {
	idx, idy, center, found := bestIntegerShift(prev, curr, bx, by, bw, bh, maxShift)
	if !found {
		return 0, 0, sadNeighborhood{}, false
	}

	left := sadOrCenter(prev, curr, bx, by, bw, bh, idx-1, idy, center)
	right := sadOrCenter(prev, curr, bx, by, bw, bh, idx+1, idy, center)
	up := sadOrCenter(prev, curr, bx, by, bw, bh, idx, idy-1, center)
	down := sadOrCenter(prev, curr, bx, by, bw, bh, idx, idy+1, center)

	nb = sadNeighborhood{center: center, left: left, right: right, up: up, down: down}

	fx := parabolicOffset(left, center, right)
	fy := parabolicOffset(up, center, down)

	return float64(idx) + fx, float64(idy) + fy, nb, true
}

func sadOrCenter(prev, curr *motion.WorkFrame, bx, by, bw, bh, dx, dy, center int) int {
	if bx+dx < 0 || bx+dx+bw > curr.Width || by+dy < 0 || by+dy+bh > curr.Height {
		return center
	}
	return sad(prev, curr, bx, by, bw, bh, dx, dy)
}

// parabolicOffset fits a parabola through (-1,left),(0,center),(1,right)
// and returns the location of its minimum, guarding against a flat or
// inverted minimum (zero or negative denominator) by falling back to the
// integer minimum.
func parabolicOffset(left, center, right int) float64 {
	denom := left - 2*center + right
	if denom <= 0 {
		return 0
	}
	off := float64(left-right) / float64(2*denom)
	if off < -1 || off > 1 {
		return 0
	}
	return off
}

// steepnessWeight derives a block's fit weight from how sharp its SAD
// minimum is: a flat minimum (small second difference) gets low weight, a
// sharp one gets high weight.
func steepnessWeight(nb sadNeighborhood) float64 {
	curvatureX := float64(nb.left + nb.right - 2*nb.center)
	curvatureY := float64(nb.up + nb.down - 2*nb.center)
	c := curvatureX + curvatureY
	if c <= 0 {
		return 0
	}
	return c
}
