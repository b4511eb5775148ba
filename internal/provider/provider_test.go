package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/frame"
)

func makeLuma(w, h int, fill func(x, y int) byte) frame.PlaneView {
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = fill(x, y)
		}
	}
	return frame.PlaneView{Width: w, Height: h, Stride: w, Pix: pix}
}

func TestAutoDownscale(t *testing.T) {
	assert.Equal(t, 1, AutoDownscale(900, 1600))
	assert.Equal(t, 3, AutoDownscale(2160, 3840))
}

func TestWorkSizeFloorsAtOne(t *testing.T) {
	w, h := WorkSize(100, 50, 50)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestProcess8BitAreaAverage(t *testing.T) {
	// A 4x4 checkerboard of 0/255 downscaled by 2 averages each 2x2 block.
	luma := makeLuma(4, 4, func(x, y int) byte {
		if (x+y)%2 == 0 {
			return 255
		}
		return 0
	})

	p := New(2)
	out := p.Process(luma, 8, nil)

	require.Equal(t, 2, out.Width)
	require.Equal(t, 2, out.Height)
	for _, v := range out.Pix {
		assert.InDelta(t, 127, v, 1)
	}
}

func TestProcessDownscaleOneCopiesExactly(t *testing.T) {
	luma := makeLuma(3, 2, func(x, y int) byte { return byte(x + y) })
	p := New(1)
	out := p.Process(luma, 8, nil)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, luma.Pix[y*3+x], out.At(x, y))
		}
	}
}

func TestProcessReusesDestinationWhenShapeMatches(t *testing.T) {
	luma := makeLuma(4, 4, func(x, y int) byte { return 1 })
	p := New(2)
	dst := p.Process(luma, 8, nil)
	again := p.Process(luma, 8, dst)
	assert.Same(t, dst, again)
}

func TestProcessHighBitDepthPath(t *testing.T) {
	// 10-bit little-endian samples, value 512 (mid-range) in every pixel.
	w, h := 4, 4
	pix := make([]byte, w*h*2)
	for i := 0; i < w*h; i++ {
		pix[2*i] = 0x00
		pix[2*i+1] = 0x02 // 512 = 0x0200
	}
	luma := frame.PlaneView{Width: w, Height: h, Stride: w * 2, Pix: pix}

	p := New(1)
	out := p.Process(luma, 10, nil)
	for _, v := range out.Pix {
		assert.InDelta(t, 128, int(v), 1)
	}
}
