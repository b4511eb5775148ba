package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/pipelineerr"
)

// ParseBitrate accepts a `<N>{k,M,G}` bitrate string and returns the value
// in kbit/s. "0" or "" means copy source (0 kbit/s, handled upstream as "no
// -b:v flag").
func ParseBitrate(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	mult := 1.0 // default: a bare number is already kbit/s
	numPart := s
	switch last := s[len(s)-1]; last {
	case 'k', 'K':
		numPart = s[:len(s)-1]
	case 'M', 'm':
		mult = 1000
		numPart = s[:len(s)-1]
	case 'G', 'g':
		mult = 1000 * 1000
		numPart = s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, &pipelineerr.ConfigError{Msg: fmt.Sprintf("invalid bitrate %q: %v", s, err)}
	}
	if n < 0 {
		return 0, &pipelineerr.ConfigError{Msg: fmt.Sprintf("invalid bitrate %q: negative", s)}
	}
	kbps := n * mult
	return int(kbps), nil
}

// ParseIgnoreRect accepts one repeatable `"x, y, w, h"` flag value.
func ParseIgnoreRect(s string) (motion.IgnoreRect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return motion.IgnoreRect{}, &pipelineerr.ConfigError{
			Msg: fmt.Sprintf("invalid --ignore %q: expected \"x, y, w, h\"", s),
		}
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return motion.IgnoreRect{}, &pipelineerr.ConfigError{
				Msg: fmt.Sprintf("invalid --ignore %q: component %d: %v", s, i, err),
			}
		}
		vals[i] = v
	}
	r := motion.IgnoreRect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if r.W < 0 || r.H < 0 {
		return motion.IgnoreRect{}, &pipelineerr.ConfigError{Msg: fmt.Sprintf("invalid --ignore %q: negative size", s)}
	}
	return r, nil
}

// knownCodecs lists the encoder names the "unknown codec" configuration
// error checks against; ffmpeg supports many more, but the stabilizer only
// claims to have exercised these.
var knownCodecs = map[string]bool{
	"libx264": true, "libx265": true, "h264_nvenc": true, "hevc_nvenc": true,
	"h264_videotoolbox": true, "hevc_videotoolbox": true, "libvpx-vp9": true, "libaom-av1": true,
}

// ValidateCodec reports a configuration error for an unrecognized encoder
// name.
func ValidateCodec(name string) error {
	if !knownCodecs[name] {
		return &pipelineerr.ConfigError{Msg: fmt.Sprintf("unknown codec %q", name)}
	}
	return nil
}
