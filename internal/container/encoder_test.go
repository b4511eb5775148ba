package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/frame"
)

func TestEncoderWritesRequestedFrameCount(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pf, err := frame.Lookup("yuv420p")
	require.NoError(t, err)
	info := Info{Width: 32, Height: 32, PixelFormat: pf, FrameRate: 10}

	pool := frame.NewPool()
	enc, err := NewEncoder(ctx, out, info, Options{Codec: "libx264", FrameRate: 10}, pool, logrus.New())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		f := pool.Get(pf, info.Width, info.Height)
		require.NoError(t, enc.Write(f))
	}
	require.NoError(t, enc.Close())

	probed, err := Probe(ctx, out)
	require.NoError(t, err)
	require.Equal(t, 32, probed.Width)
	require.Equal(t, 4, probed.FrameCount)
}
