// Package warp applies the final correction×zoom similarity transform to
// every plane of a full-resolution frame, scaling the shift for each
// plane's chroma subsampling and picking an 8- or 16-bit buffer to match
// the plane's bit depth.
package warp

import (
	"encoding/binary"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
)

// Warper applies a Motion and zoom factor to every plane of a Frame. It
// keeps one reusable scratch buffer per plane, reallocated only when a
// plane's size changes.
type Warper struct {
	scratch [3][]byte
}

// New constructs a Warper.
func New() *Warper {
	return &Warper{}
}

// Apply warps every plane of f in place, using the per-plane effective
// transform derived from m, zoom, and workW/workH (the work-frame
// dimensions the Motion's shift is expressed in):
//
//	effective = (shift * (planeW/workW, planeH/workH), scale*zoom, alpha)
//
// The matrix maps source to destination (see effectiveMatrix), so a zoom
// above 1 magnifies the plane about its center.
func (w *Warper) Apply(f *frame.Frame, m motion.Motion, zoom, workW, workH float64) {
	if zoom <= 0 {
		zoom = 1
	}
	for p := 0; p < f.Format.Planes; p++ {
		plane := &f.Planes[p]
		if plane.Width == 0 || plane.Height == 0 {
			continue
		}
		shiftX := m.Shift.X * float64(plane.Width) / workW
		shiftY := m.Shift.Y * float64(plane.Height) / workH
		scale := m.Scale * zoom

		mat := effectiveMatrix(shiftX, shiftY, scale, m.Alpha, float64(plane.Width), float64(plane.Height))
		w.warpPlane(p, plane, f.Format.BytesPerSample(), mat)
	}
}

// effectiveMatrix builds the src-to-dst affine matrix for
// dst = center + scale*Rotate(alpha)*(src-center) + shift, centered on the
// plane's own midpoint, matching x/image/draw's "s2d" convention (the
// matrix maps a source-space point to where it lands in destination space;
// Transform inverts it internally per destination pixel).
func effectiveMatrix(shiftX, shiftY, scale, alpha, w, h float64) f64.Aff3 {
	cx, cy := w/2, h/2
	a := scale * math.Cos(alpha)
	b := scale * math.Sin(alpha)
	return f64.Aff3{
		a, -b, cx - a*cx + b*cy + shiftX,
		b, a, cy - b*cx - a*cy + shiftY,
	}
}

func (w *Warper) warpPlane(p int, plane *frame.Plane, bytesPerSample int, mat f64.Aff3) {
	view := plane.View()
	if bytesPerSample == 1 {
		w.warp8(p, plane, view, mat)
		return
	}
	w.warp16(p, plane, view, mat)
}

func (w *Warper) warp8(p int, plane *frame.Plane, view frame.PlaneView, mat f64.Aff3) {
	scratch := w.scratchFor(p, len(view.Pix))
	copy(scratch, view.Pix)

	src := &image.Gray{Pix: scratch, Stride: view.Stride, Rect: image.Rect(0, 0, view.Width, view.Height)}
	dst := &image.Gray{Pix: plane.Pix, Stride: plane.Stride, Rect: image.Rect(0, 0, plane.Width, plane.Height)}
	draw.BiLinear.Transform(dst, mat, src, src.Rect, draw.Src, &draw.Options{})
}

func (w *Warper) warp16(p int, plane *frame.Plane, view frame.PlaneView, mat f64.Aff3) {
	scratch := w.scratchFor(p, view.Width*view.Height*2)
	littleEndianToBigEndian16(view.Pix, view.Stride, view.Width, view.Height, scratch, view.Width*2)

	src := &image.Gray16{Pix: scratch, Stride: view.Width * 2, Rect: image.Rect(0, 0, view.Width, view.Height)}
	dstBuf := make([]byte, plane.Width*plane.Height*2)
	dst := &image.Gray16{Pix: dstBuf, Stride: plane.Width * 2, Rect: image.Rect(0, 0, plane.Width, plane.Height)}
	draw.BiLinear.Transform(dst, mat, src, src.Rect, draw.Src, &draw.Options{})

	bigEndianToLittleEndian16(dstBuf, plane.Width*2, plane.Width, plane.Height, plane.Pix, plane.Stride)
}

func (w *Warper) scratchFor(plane, size int) []byte {
	if len(w.scratch[plane]) != size {
		w.scratch[plane] = make([]byte, size)
	}
	return w.scratch[plane]
}

// littleEndianToBigEndian16 and its inverse bridge the little-endian
// rawvideo sample layout ffmpeg emits (e.g. yuv420p10le) and the
// big-endian layout image.Gray16 requires, per the image package's Pix
// documentation.
func littleEndianToBigEndian16(src []byte, srcStride, w, h int, dst []byte, dstStride int) {
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w*2]
		d := dst[y*dstStride : y*dstStride+w*2]
		for x := 0; x < w; x++ {
			v := binary.LittleEndian.Uint16(s[2*x:])
			binary.BigEndian.PutUint16(d[2*x:], v)
		}
	}
}

func bigEndianToLittleEndian16(src []byte, srcStride, w, h int, dst []byte, dstStride int) {
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w*2]
		d := dst[y*dstStride : y*dstStride+w*2]
		for x := 0; x < w; x++ {
			v := binary.BigEndian.Uint16(s[2*x:])
			binary.LittleEndian.PutUint16(d[2*x:], v)
		}
	}
}
