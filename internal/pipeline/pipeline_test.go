package pipeline

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/config"
	"github.com/ivlev/stabilize/internal/container"
	"github.com/ivlev/stabilize/internal/estimator"
	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/provider"
)

func TestDrainDecodeErrNormalizesEOF(t *testing.T) {
	assert.NoError(t, drainDecodeErr(io.EOF))
	assert.Error(t, drainDecodeErr(io.ErrClosedPipe))
	assert.NoError(t, drainDecodeErr(nil))
}

func TestEncoderOptionsCarriesCodecBitrateAndFrameRate(t *testing.T) {
	p := New(config.Config{Codec: "libx265", BitrateKbs: 4000}, logrus.New())
	opts := p.encoderOptions(container.Info{FrameRate: 29.97})
	assert.Equal(t, "libx265", opts.Codec)
	assert.Equal(t, 4000, opts.BitrateKbs)
	assert.Equal(t, 29.97, opts.FrameRate)
}

func TestProcessFrameFirstCallIsIdentity(t *testing.T) {
	pf, err := frame.Lookup("yuv420p")
	require.NoError(t, err)
	f := frame.New(pf, 32, 32)

	prov := provider.New(1)
	est := estimator.New(motion.DefaultParams(), nil)
	var workBuf *motion.WorkFrame

	got := processFrame(prov, est, f, &workBuf)
	assert.Equal(t, motion.Identity(), got)
	require.NotNil(t, workBuf)
}

func TestNewOnlyAllocatesReportWhenDebugRequested(t *testing.T) {
	plain := New(config.Config{}, logrus.New())
	assert.Nil(t, plain.report)

	debug := New(config.Config{Debug: true}, logrus.New())
	assert.NotNil(t, debug.report)
}

func requireFFmpegTools(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}
}

func TestRunOnePassEndToEndProducesAPlayableFile(t *testing.T) {
	requireFFmpegTools(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")

	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=size=64x64:rate=10",
		"-frames:v", "8",
		"-pix_fmt", "yuv420p",
		in,
	)
	require.NoError(t, cmd.Run())

	cfg := config.Default()
	cfg.Params.BlockSize = 8
	cfg.Params.MaxShift = 2
	cfg.Params.XSmooth, cfg.Params.YSmooth = 2, 2
	cfg.Params.ScaleSmooth, cfg.Params.AlphaSmooth = 2, 2

	p := New(cfg, logrus.New())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx, in, out))

	outInfo, err := container.Probe(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 64, outInfo.Width)
}

func TestRunTwoPassEndToEndProducesAPlayableFile(t *testing.T) {
	requireFFmpegTools(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")

	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=size=64x64:rate=10",
		"-frames:v", "8",
		"-pix_fmt", "yuv420p",
		in,
	)
	require.NoError(t, cmd.Run())

	cfg := config.Default()
	cfg.Autozoom = true
	cfg.Params.BlockSize = 8
	cfg.Params.MaxShift = 2
	cfg.Params.XSmooth, cfg.Params.YSmooth = 2, 2
	cfg.Params.ScaleSmooth, cfg.Params.AlphaSmooth = 2, 2

	p := New(cfg, logrus.New())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx, in, out))

	outInfo, err := container.Probe(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 64, outInfo.Width)
}
