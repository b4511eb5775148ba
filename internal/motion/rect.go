package motion

// IgnoreRect is a user-supplied region, in source-resolution pixels, to
// exclude from the block-matching fit (e.g. a moving foreground subject).
type IgnoreRect struct {
	X, Y, W, H int
}

// Scaled down-scales a source-resolution rectangle into work-frame
// coordinates by the Provider's downscale factor, truncating like every
// other down-scale in this pipeline.
func (r IgnoreRect) Scaled(factor int) IgnoreRect {
	if factor <= 1 {
		return r
	}
	return IgnoreRect{X: r.X / factor, Y: r.Y / factor, W: r.W / factor, H: r.H / factor}
}

// Intersects reports whether r overlaps the axis-aligned box [x,y,x+w)x[y,y+h).
func (r IgnoreRect) Intersects(x, y, w, h int) bool {
	return x < r.X+r.W && r.X < x+w && y < r.Y+r.H && r.Y < y+h
}
