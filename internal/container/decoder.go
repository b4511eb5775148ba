package container

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/stabilize/internal/frame"
)

// Decoder reads an input file frame-by-frame as raw planar video via an
// ffmpeg subprocess: ordered iteration, dimensions/format/stride known up
// front from Probe, and restartable for two-pass mode.
type Decoder struct {
	ctx  context.Context
	path string
	info Info
	pool *frame.Pool
	log  *logrus.Logger

	cmd    *exec.Cmd
	stdout io.ReadCloser
	g      *errgroup.Group
}

// NewDecoder constructs a Decoder and starts its ffmpeg subprocess.
func NewDecoder(ctx context.Context, path string, info Info, pool *frame.Pool, log *logrus.Logger) (*Decoder, error) {
	d := &Decoder{ctx: ctx, path: path, info: info, pool: pool, log: log}
	if err := d.start(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) start() error {
	args := []string{
		"-v", "error",
		"-i", d.path,
		"-f", "rawvideo",
		"-pix_fmt", d.info.PixelFormat.Name,
		"-",
	}
	cmd := exec.CommandContext(d.ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("decoder stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("decoder stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start decoder %s: %w", d.path, err)
	}

	g, _ := errgroup.WithContext(d.ctx)
	g.Go(func() error { drainStderr(stderr, d.log, "decoder"); return nil })

	d.cmd, d.stdout, d.g = cmd, stdout, g
	return nil
}

// Next reads one frame's worth of plane data into a pooled Frame. It
// returns io.EOF once the stream is exhausted.
func (d *Decoder) Next() (*frame.Frame, error) {
	f := d.pool.Get(d.info.PixelFormat, d.info.Width, d.info.Height)
	for p := 0; p < f.Format.Planes; p++ {
		plane := &f.Planes[p]
		if _, err := io.ReadFull(d.stdout, plane.Pix); err != nil {
			d.pool.Put(f)
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read decoded plane %d: %w", p, err)
		}
	}
	return f, nil
}

// Close waits for the subprocess and its stderr-drain goroutine to finish.
func (d *Decoder) Close() error {
	io.Copy(io.Discard, d.stdout)
	waitErr := d.cmd.Wait()
	_ = d.g.Wait()
	if waitErr != nil {
		return fmt.Errorf("decoder %s: %w", d.path, waitErr)
	}
	return nil
}

// Restart closes the current subprocess and re-opens the input from the
// beginning, for two-pass mode.
func (d *Decoder) Restart() error {
	if err := d.Close(); err != nil {
		d.log.WithError(err).Debug("decoder restart: ignoring prior-pass exit error")
	}
	return d.start()
}

// drainStderr is the reader goroutine that prevents a full stderr pipe
// from blocking the subprocess while a sibling goroutine (or the caller)
// is blocked on stdout/stdin.
func drainStderr(r io.Reader, log *logrus.Logger, who string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if log != nil {
			log.WithField("proc", who).Debug(scanner.Text())
		}
	}
}
