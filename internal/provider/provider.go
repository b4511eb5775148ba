// Package provider turns a decoded frame's luminance plane into the small
// single-channel 8-bit WorkFrame every motion-math component operates on.
package provider

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
)

// Provider down-scales a decoded frame's luminance plane into a WorkFrame.
type Provider struct {
	Downscale int
}

// New constructs a Provider with an explicit downscale factor. Use
// AutoDownscale to compute the default the CLI falls back to.
func New(downscale int) *Provider {
	if downscale < 1 {
		downscale = 1
	}
	return &Provider{Downscale: downscale}
}

// AutoDownscale returns the default downscale factor: 1 + min(H, W)/1000.
func AutoDownscale(height, width int) int {
	m := height
	if width < m {
		m = width
	}
	return 1 + m/1000
}

// WorkSize returns the WorkFrame dimensions Process will produce for a
// frame of the given luma size at the given downscale factor, without
// allocating one. The pipeline needs this up front to size the Estimator's
// ignore rectangles and the Warper's per-plane shift scaling.
func WorkSize(downscale, lumaW, lumaH int) (w, h int) {
	w, h = lumaW/downscale, lumaH/downscale
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Process produces a WorkFrame from the luminance plane of a decoded frame.
// 8-bit sources take the fast integer area-average path; higher-bit-depth
// sources are rescaled to 8-bit grayscale via the external resampler
// (golang.org/x/image/draw).
func (p *Provider) Process(luma frame.PlaneView, bitDepth int, dst *motion.WorkFrame) *motion.WorkFrame {
	outW := luma.Width / p.Downscale
	outH := luma.Height / p.Downscale
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	if dst == nil || dst.Width != outW || dst.Height != outH {
		dst = motion.NewWorkFrame(outW, outH)
	}

	if bitDepth <= 8 {
		areaAverageDownscale8(luma, p.Downscale, dst)
		return dst
	}

	gray8 := shiftTo8Bit(luma, bitDepth)
	src := &image.Gray{Pix: gray8, Stride: luma.Width, Rect: image.Rect(0, 0, luma.Width, luma.Height)}
	out := &image.Gray{Pix: dst.Pix, Stride: dst.Stride, Rect: image.Rect(0, 0, dst.Width, dst.Height)}
	draw.CatmullRom.Scale(out, out.Rect, src, src.Rect, draw.Src, nil)
	return dst
}

// areaAverageDownscale8 is the fast path: each output pixel is the mean of
// an n×n source block, n = downscale. Height/width not a multiple of
// downscale truncate.
func areaAverageDownscale8(luma frame.PlaneView, n int, dst *motion.WorkFrame) {
	if n <= 1 {
		for y := 0; y < dst.Height; y++ {
			srcRow := luma.Pix[y*luma.Stride : y*luma.Stride+luma.Width]
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+dst.Width], srcRow)
		}
		return
	}
	area := n * n
	for oy := 0; oy < dst.Height; oy++ {
		sy0 := oy * n
		for ox := 0; ox < dst.Width; ox++ {
			sx0 := ox * n
			sum := 0
			for dy := 0; dy < n; dy++ {
				row := (sy0 + dy) * luma.Stride
				for dx := 0; dx < n; dx++ {
					sum += int(luma.Pix[row+sx0+dx])
				}
			}
			dst.Pix[oy*dst.Stride+ox] = uint8(sum / area)
		}
	}
}

// shiftTo8Bit reduces a 9-16-bit little-endian planar buffer to 8-bit by
// dropping the low (depth-8) bits, the bit-depth half of the "rescale to
// 8-bit grayscale" step; the spatial resample half is delegated to
// golang.org/x/image/draw above.
func shiftTo8Bit(luma frame.PlaneView, bitDepth int) []byte {
	shift := uint(bitDepth - 8)
	out := make([]byte, luma.Width*luma.Height)
	rowBytes := luma.Width * 2
	for y := 0; y < luma.Height; y++ {
		srcRow := luma.Pix[y*luma.Stride : y*luma.Stride+rowBytes]
		dstRow := out[y*luma.Width : (y+1)*luma.Width]
		for x := 0; x < luma.Width; x++ {
			v := uint16(srcRow[2*x]) | uint16(srcRow[2*x+1])<<8
			dstRow[x] = uint8(v >> shift)
		}
	}
	return out
}
