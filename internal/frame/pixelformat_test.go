package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/pipelineerr"
)

func TestLookupKnownFormat(t *testing.T) {
	pf, err := Lookup("yuv420p10le")
	require.NoError(t, err)
	assert.Equal(t, 10, pf.BitDepth)
	assert.Equal(t, 3, pf.Planes)
	assert.Equal(t, 2, pf.BytesPerSample())
}

func TestLookupUnsupportedFormat(t *testing.T) {
	_, err := Lookup("rgb24")
	var unsupported *pipelineerr.UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
}

func TestBytesPerSampleBoundary(t *testing.T) {
	assert.Equal(t, 1, PixelFormat{BitDepth: 8}.BytesPerSample())
	assert.Equal(t, 2, PixelFormat{BitDepth: 9}.BytesPerSample())
}

func TestPlaneDimsLumaIsFullResolution(t *testing.T) {
	pf := PixelFormat{ChromaShiftX: 1, ChromaShiftY: 1}
	w, h := pf.PlaneDims(0, 13, 9)
	assert.Equal(t, 13, w)
	assert.Equal(t, 9, h)
}

func TestPlaneDimsChromaCeilsOddDimensions(t *testing.T) {
	pf := PixelFormat{ChromaShiftX: 1, ChromaShiftY: 0}
	w, h := pf.PlaneDims(1, 13, 9)
	assert.Equal(t, 7, w)
	assert.Equal(t, 9, h)
}
