package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRecyclesMatchingShape(t *testing.T) {
	yuv420p, err := Lookup("yuv420p")
	require.NoError(t, err)

	p := NewPool()
	f := p.Get(yuv420p, 16, 16)
	f.Planes[0].Pix[0] = 77
	p.Put(f)

	again := p.Get(yuv420p, 16, 16)
	assert.Same(t, f, again)
	assert.Equal(t, byte(77), again.Planes[0].Pix[0])
}

func TestPoolDoesNotConfuseDifferentShapes(t *testing.T) {
	yuv420p, err := Lookup("yuv420p")
	require.NoError(t, err)

	p := NewPool()
	small := p.Get(yuv420p, 8, 8)
	large := p.Get(yuv420p, 16, 16)
	assert.NotEqual(t, small.Width, large.Width)
}

func TestPoolPutNilIsSafe(t *testing.T) {
	p := NewPool()
	assert.NotPanics(t, func() { p.Put(nil) })
}
