package debugreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
)

func TestImprintBurnsQRIntoLumaCorner(t *testing.T) {
	pf, err := frame.Lookup("yuv420p")
	require.NoError(t, err)
	f := frame.New(pf, 128, 128)
	before := append([]byte(nil), f.Planes[0].Pix...)

	err = Imprint(f, 0, motion.Identity(), motion.Identity(), 1.0)
	require.NoError(t, err)
	assert.NotEqual(t, before, f.Planes[0].Pix, "imprint should modify the luma plane")
}

func TestImprintSkipsHighBitDepthSilently(t *testing.T) {
	pf, err := frame.Lookup("yuv420p10le")
	require.NoError(t, err)
	f := frame.New(pf, 128, 128)
	before := append([]byte(nil), f.Planes[0].Pix...)

	err = Imprint(f, 0, motion.Identity(), motion.Identity(), 1.0)
	require.NoError(t, err)
	assert.Equal(t, before, f.Planes[0].Pix)
}

func TestImprintHandlesFrameSmallerThanQRSize(t *testing.T) {
	pf, err := frame.Lookup("yuv420p")
	require.NoError(t, err)
	f := frame.New(pf, 4, 4)
	assert.NoError(t, Imprint(f, 0, motion.Identity(), motion.Identity(), 1.0))
}
