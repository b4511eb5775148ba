// Package frame wraps the raw frame handles the external container adapter
// produces into a scoped handle (Frame) that owns the decoded plane buffers
// until it is encoded or released, plus a non-owning PlaneView that the
// Provider and Warper pass around instead.
package frame

import (
	"fmt"

	"github.com/ivlev/stabilize/internal/pipelineerr"
)

// PixelFormat describes a planar YUV layout: how many planes, their bit
// depth, and the chroma subsampling ratio (as a log2 shift, matching
// FFmpeg's AVPixFmtDescriptor convention).
type PixelFormat struct {
	Name             string
	Planes           int
	BitDepth         int
	ChromaShiftX     int
	ChromaShiftY     int
}

var knownFormats = map[string]PixelFormat{
	"yuv420p":    {Name: "yuv420p", Planes: 3, BitDepth: 8, ChromaShiftX: 1, ChromaShiftY: 1},
	"yuv422p":    {Name: "yuv422p", Planes: 3, BitDepth: 8, ChromaShiftX: 1, ChromaShiftY: 0},
	"yuv444p":    {Name: "yuv444p", Planes: 3, BitDepth: 8, ChromaShiftX: 0, ChromaShiftY: 0},
	"yuv420p10le": {Name: "yuv420p10le", Planes: 3, BitDepth: 10, ChromaShiftX: 1, ChromaShiftY: 1},
	"yuv420p12le": {Name: "yuv420p12le", Planes: 3, BitDepth: 12, ChromaShiftX: 1, ChromaShiftY: 1},
	"yuv422p10le": {Name: "yuv422p10le", Planes: 3, BitDepth: 10, ChromaShiftX: 1, ChromaShiftY: 0},
	"yuv444p10le": {Name: "yuv444p10le", Planes: 3, BitDepth: 10, ChromaShiftX: 0, ChromaShiftY: 0},
}

// Lookup resolves an FFmpeg pixel-format name to a PixelFormat descriptor.
// Unrecognized formats are an unsupported-input error.
func Lookup(name string) (PixelFormat, error) {
	pf, ok := knownFormats[name]
	if !ok {
		return PixelFormat{}, &pipelineerr.UnsupportedInputError{
			Msg: fmt.Sprintf("unsupported pixel format %q: no recognized luminance plane", name),
		}
	}
	return pf, nil
}

// BytesPerSample is 1 for 8-bit planes and 2 for 9-16-bit planes.
func (pf PixelFormat) BytesPerSample() int {
	if pf.BitDepth <= 8 {
		return 1
	}
	return 2
}

// PlaneDims returns a plane's dimensions given the frame's luma dimensions.
// Plane 0 (luma) is always full resolution; planes 1 and 2 (chroma) are
// subsampled by the descriptor's shift.
func (pf PixelFormat) PlaneDims(plane, lumaW, lumaH int) (w, h int) {
	if plane == 0 {
		return lumaW, lumaH
	}
	w = ceilShift(lumaW, pf.ChromaShiftX)
	h = ceilShift(lumaH, pf.ChromaShiftY)
	return w, h
}

func ceilShift(v, shift int) int {
	return (v + (1 << shift) - 1) >> shift
}
