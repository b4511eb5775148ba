// Package container is the external collaborator boundary: it demuxes and
// decodes an input video into raw planar frames, and encodes and muxes
// warped frames back out, via the ffmpeg/ffprobe binaries rather than a
// linked codec library.
package container

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/pipelineerr"
)

// Info describes the input's video stream, as reported by ffprobe.
type Info struct {
	Width, Height int
	PixelFormat   frame.PixelFormat
	FrameRate     float64
	FrameCount    int // 0 when ffprobe could not report a frame count
}

type probeStream struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PixFmt     string `json:"pix_fmt"`
	RFrameRate string `json:"r_frame_rate"`
	NbFrames   string `json:"nb_frames"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

// Probe runs ffprobe against path and resolves its video stream's
// dimensions, pixel format, and frame rate. See DESIGN.md for why the JSON
// decoding here stays on the standard library encoding/json.
func Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,pix_fmt,r_frame_rate,nb_frames",
		"-print_format", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	if len(parsed.Streams) == 0 {
		return Info{}, &pipelineerr.UnsupportedInputError{Msg: fmt.Sprintf("%s: no video stream found", path)}
	}

	s := parsed.Streams[0]
	pf, err := frame.Lookup(s.PixFmt)
	if err != nil {
		return Info{}, err
	}

	count, _ := strconv.Atoi(s.NbFrames)
	return Info{
		Width:       s.Width,
		Height:      s.Height,
		PixelFormat: pf,
		FrameRate:   parseFrameRate(s.RFrameRate),
		FrameCount:  count,
	}, nil
}

// parseFrameRate accepts ffprobe's "num/den" rational frame rate format.
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, _ := strconv.ParseFloat(num, 64)
	d, _ := strconv.ParseFloat(den, 64)
	if d == 0 {
		return 0
	}
	return n / d
}
