package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkFrameAt(t *testing.T) {
	f := NewWorkFrame(4, 3)
	for i := range f.Pix {
		f.Pix[i] = uint8(i)
	}
	assert.Equal(t, uint8(6), f.At(2, 1))
}

func TestWorkFrameCloneReusesMatchingBuffer(t *testing.T) {
	f := NewWorkFrame(4, 3)
	f.Pix[0] = 42

	dst := NewWorkFrame(4, 3)
	original := &dst.Pix[0]
	clone := f.Clone(dst)

	require.Same(t, dst, clone)
	assert.Same(t, original, &clone.Pix[0])
	assert.Equal(t, uint8(42), clone.Pix[0])
}

func TestWorkFrameCloneAllocatesOnMismatch(t *testing.T) {
	f := NewWorkFrame(4, 3)
	dst := NewWorkFrame(2, 2)

	clone := f.Clone(dst)
	assert.Equal(t, f.Width, clone.Width)
	assert.Equal(t, f.Height, clone.Height)
	assert.NotSame(t, dst, clone)
}
