package container

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/frame"
)

func requireFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
}

// generateTestClip renders a short synthetic clip via ffmpeg's testsrc
// filter, the same way an integration test would exercise the Decoder
// against a real file without shipping binary fixtures.
func generateTestClip(t *testing.T, path string, frames int) {
	t.Helper()
	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=size=32x32:rate=10",
		"-frames:v", strconv.Itoa(frames),
		"-pix_fmt", "yuv420p",
		path,
	)
	require.NoError(t, cmd.Run())
}

func TestDecoderReadsEveryFrameThenEOF(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	generateTestClip(t, path, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := Probe(ctx, path)
	require.NoError(t, err)

	pool := frame.NewPool()
	dec, err := NewDecoder(ctx, path, info, pool, logrus.New())
	require.NoError(t, err)
	defer dec.Close()

	count := 0
	for {
		f, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pool.Put(f)
		count++
	}
	require.Equal(t, 4, count)
}

func TestDecoderRestartRereadsFromTheBeginning(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	generateTestClip(t, path, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := Probe(ctx, path)
	require.NoError(t, err)

	pool := frame.NewPool()
	dec, err := NewDecoder(ctx, path, info, pool, logrus.New())
	require.NoError(t, err)
	defer dec.Close()

	first := 0
	for {
		f, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pool.Put(f)
		first++
	}

	require.NoError(t, dec.Restart())

	second := 0
	for {
		f, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pool.Put(f)
		second++
	}
	require.Equal(t, first, second)
}
