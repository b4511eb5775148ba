package motion

import "fmt"

// Params is the pipeline's immutable configuration, constructed once from
// CLI flags and never mutated afterward (see internal/config).
type Params struct {
	XSmooth, YSmooth, ScaleSmooth, AlphaSmooth int
	BlockSize, MaxShift                        int
	MaxAlpha, MaxScale                         float64
	SceneCutThreshold                          float64
}

// DefaultParams mirrors the defaults a production stabilizer ships with:
// a half-second smoothing half-width at 30fps (a 31-frame centered
// window), 16px blocks, modest clamps.
func DefaultParams() Params {
	return Params{
		XSmooth:            15,
		YSmooth:            15,
		ScaleSmooth:        15,
		AlphaSmooth:        15,
		BlockSize:          16,
		MaxShift:           8,
		MaxAlpha:           0.1,
		MaxScale:           1.05,
		SceneCutThreshold:  0.5,
	}
}

// Validate enforces the invariants a sane pipeline requires before it is
// constructed: bad values are a configuration error, reported before any
// frame is processed.
func (p Params) Validate() error {
	if p.XSmooth < 1 || p.YSmooth < 1 || p.ScaleSmooth < 1 || p.AlphaSmooth < 1 {
		return fmt.Errorf("smoothing window lengths must be >= 1")
	}
	if p.BlockSize < 8 {
		return fmt.Errorf("block_size must be >= 8, got %d", p.BlockSize)
	}
	if p.MaxShift > p.BlockSize/2 {
		return fmt.Errorf("max_shift (%d) must be <= block_size/2 (%d)", p.MaxShift, p.BlockSize/2)
	}
	if p.MaxShift < 1 {
		return fmt.Errorf("max_shift must be >= 1")
	}
	if p.MaxAlpha < 0 {
		return fmt.Errorf("max_alpha must be >= 0")
	}
	if p.MaxScale < 1 {
		return fmt.Errorf("max_scale must be >= 1")
	}
	if p.SceneCutThreshold < 0 {
		return fmt.Errorf("scene_cut_threshold must be >= 0")
	}
	return nil
}

// MaxWindow returns the largest smoothing half-width across all four
// components, i.e. the delay (in frames) the Trajectory Smoother introduces.
func (p Params) MaxWindow() int {
	w := p.XSmooth
	for _, v := range []int{p.YSmooth, p.ScaleSmooth, p.AlphaSmooth} {
		if v > w {
			w = v
		}
	}
	return w
}
