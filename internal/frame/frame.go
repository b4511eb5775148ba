package frame

import (
	"fmt"

	"github.com/ivlev/stabilize/internal/pipelineerr"
)

// Plane is one owned plane buffer of a Frame.
type Plane struct {
	Width, Height, Stride int
	Pix                    []byte
}

// View returns a non-owning PlaneView over this plane's data. No copy: Go
// slices already alias their backing array, so View exists purely to mark
// the boundary — code holding a PlaneView must never assume the Frame
// outlives it.
func (p Plane) View() PlaneView {
	return PlaneView{Width: p.Width, Height: p.Height, Stride: p.Stride, Pix: p.Pix}
}

// PlaneView is the non-owning view the Provider and Warper operate on.
type PlaneView struct {
	Width, Height, Stride int
	Pix                    []byte
}

// CopyPix returns a fresh copy of the plane's bytes.
func (v PlaneView) CopyPix() []byte {
	out := make([]byte, len(v.Pix))
	copy(out, v.Pix)
	return out
}

// Frame is a scoped handle owning one decoded video frame's plane buffers
// from decode until it is encoded or released. The container adapter
// allocates (or recycles, via Pool) a Frame per decoded picture and hands
// it down the pipeline; the one-pass run mode holds decoded Frames in a
// short FIFO until the Smoother's correction for each is ready.
type Frame struct {
	Format  PixelFormat
	Width   int
	Height  int
	Planes  [3]Plane
}

// New allocates a Frame with freshly sized plane buffers for the given
// format and luma dimensions.
func New(format PixelFormat, lumaW, lumaH int) *Frame {
	f := &Frame{Format: format, Width: lumaW, Height: lumaH}
	bps := format.BytesPerSample()
	for p := 0; p < format.Planes; p++ {
		w, h := format.PlaneDims(p, lumaW, lumaH)
		f.Planes[p] = Plane{Width: w, Height: h, Stride: w * bps, Pix: make([]byte, w*h*bps)}
	}
	return f
}

// Luma returns a view over the luminance plane (plane 0), the only plane
// the Grayscale Work-Frame Provider and the Block-Matching Estimator ever
// read.
func (f *Frame) Luma() PlaneView {
	return f.Planes[0].View()
}

// Validate rejects frames with no recognized luminance plane or zero size.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return &pipelineerr.UnsupportedInputError{Msg: fmt.Sprintf("zero-size frame: %dx%d", f.Width, f.Height)}
	}
	if f.Format.Planes == 0 {
		return &pipelineerr.UnsupportedInputError{Msg: "frame has no recognized luminance plane"}
	}
	return nil
}
