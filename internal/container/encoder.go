package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/stabilize/internal/frame"
)

// Options configures the output encode.
type Options struct {
	Codec      string
	BitrateKbs int // 0 means let the encoder pick (no -b:v flag)
	FrameRate  float64
}

// Encoder writes warped frames to an output file via an ffmpeg subprocess.
// Frames are handed off through a channel to a dedicated writer goroutine
// so the caller's single write call never blocks directly on the OS pipe;
// a sibling goroutine drains stderr concurrently to avoid the classic pipe
// deadlock.
type Encoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	frames chan *frame.Frame
	g      *errgroup.Group
	ctx    context.Context
}

// NewEncoder constructs an Encoder and starts its ffmpeg subprocess.
func NewEncoder(ctx context.Context, path string, info Info, opts Options, pool *frame.Pool, log *logrus.Logger) (*Encoder, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", info.PixelFormat.Name,
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"-r", fmt.Sprintf("%f", opts.FrameRate),
		"-i", "-",
		"-c:v", opts.Codec,
	}
	if opts.BitrateKbs > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.BitrateKbs))
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder %s: %w", path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	frames := make(chan *frame.Frame)

	g.Go(func() error { drainStderr(stderr, log, "encoder"); return nil })
	g.Go(func() error { return writeFrames(gctx, stdin, frames, pool) })

	return &Encoder{cmd: cmd, stdin: stdin, frames: frames, g: g, ctx: gctx}, nil
}

// writeFrames is the writer goroutine: it drains the frames channel and
// blits each plane to the encoder's stdin in plane order, releasing every
// frame back to pool once written. It owns stdin's lifetime: closing it on
// the way out (either because the channel closed or a write failed) is
// what lets the stderr-drain goroutine's Read eventually see EOF once
// ffmpeg exits, so Close can wait on both goroutines together.
func writeFrames(ctx context.Context, stdin io.WriteCloser, frames chan *frame.Frame, pool *frame.Pool) error {
	defer stdin.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			for p := 0; p < f.Format.Planes; p++ {
				if _, err := stdin.Write(f.Planes[p].Pix); err != nil {
					pool.Put(f)
					return fmt.Errorf("write encoded plane %d: %w", p, err)
				}
			}
			pool.Put(f)
		}
	}
}

// Write hands f to the writer goroutine, which owns it from then on and
// returns it to pool once it has actually been written.
func (e *Encoder) Write(f *frame.Frame) error {
	select {
	case e.frames <- f:
		return nil
	case <-e.ctx.Done():
		return fmt.Errorf("encoder write: %w", e.ctx.Err())
	}
}

// Close signals end-of-stream, waits for the subprocess and both
// goroutines, and returns the first error encountered, if any.
func (e *Encoder) Close() error {
	close(e.frames)
	groupErr := e.g.Wait()
	waitErr := e.cmd.Wait()
	if groupErr != nil {
		return fmt.Errorf("encoder: %w", groupErr)
	}
	if waitErr != nil {
		return fmt.Errorf("encoder: %w", waitErr)
	}
	return nil
}
