package config

import (
	"flag"
	"fmt"

	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/pipelineerr"
)

// ignoreList implements flag.Value so --ignore can repeat on the command
// line, each occurrence appending one rectangle.
type ignoreList struct {
	rects *[]motion.IgnoreRect
	err   error
}

func (l *ignoreList) String() string { return "" }

func (l *ignoreList) Set(s string) error {
	r, err := ParseIgnoreRect(s)
	if err != nil {
		l.err = err
		return err
	}
	*l.rects = append(*l.rects, r)
	return nil
}

// Parse builds a Config from the given argument list (os.Args[1:] in
// production, a literal slice in tests), validates it, and returns the two
// positional paths plus the resolved Config. Unknown flags are an error
// because flag.Parse already rejects them.
func Parse(args []string) (input, output string, cfg Config, err error) {
	cfg = Default()
	fs := flag.NewFlagSet("stabilize", flag.ContinueOnError)

	bitrateStr := fs.String("bitrate", "0", "target output bitrate, e.g. 4M (0 = copy source)")
	codec := fs.String("codec", cfg.Codec, "encoder name")
	downscale := fs.Int("downscale", 0, "work-frame downscale factor (0 = auto)")
	prezoom := fs.Float64("prezoom", cfg.Prezoom, "minimum static zoom")
	autozoom := fs.Bool("autozoom", false, "enable two-pass zoom planning")
	zoomSpeed := fs.Float64("zoom_speed", cfg.ZoomSpeed, "max per-frame zoom ratio")

	xSmooth := fs.Int("x_smooth", cfg.Params.XSmooth, "x shift smoothing window")
	ySmooth := fs.Int("y_smooth", cfg.Params.YSmooth, "y shift smoothing window")
	scaleSmooth := fs.Int("scale_smooth", cfg.Params.ScaleSmooth, "scale smoothing window")
	alphaSmooth := fs.Int("alpha_smooth", cfg.Params.AlphaSmooth, "rotation smoothing window")
	sceneCut := fs.Float64("scene_cut_threshold", cfg.Params.SceneCutThreshold, "inlier-fraction confidence threshold")
	blockSize := fs.Int("block_size", cfg.Params.BlockSize, "motion estimator block size")
	maxShift := fs.Int("max_shift", cfg.Params.MaxShift, "motion estimator max block shift")
	maxAlpha := fs.Float64("max_alpha", cfg.Params.MaxAlpha, "max rotation clamp, radians")
	maxScale := fs.Float64("max_scale", cfg.Params.MaxScale, "max scale clamp")

	debug := fs.Bool("debug", false, "write a per-frame YAML trajectory report")
	verbose := fs.Bool("verbose", false, "periodically log resource usage")
	debugImprint := fs.Bool("debug_imprint", false, "stamp a debug QR code onto every warped frame")

	var ignoreRects []motion.IgnoreRect
	fs.Var(&ignoreList{rects: &ignoreRects}, "ignore", `region excluded from motion fit, "x, y, w, h" (repeatable)`)

	if err := fs.Parse(args); err != nil {
		return "", "", Config{}, err
	}
	if fs.NArg() != 2 {
		return "", "", Config{}, &pipelineerr.ConfigError{
			Msg: fmt.Sprintf("expected input and output paths, got %d positional arguments", fs.NArg()),
		}
	}

	kbps, err := ParseBitrate(*bitrateStr)
	if err != nil {
		return "", "", Config{}, err
	}
	if err := ValidateCodec(*codec); err != nil {
		return "", "", Config{}, err
	}

	cfg.BitrateKbs = kbps
	cfg.Codec = *codec
	cfg.Downscale = *downscale
	cfg.Prezoom = *prezoom
	cfg.Autozoom = *autozoom
	cfg.ZoomSpeed = *zoomSpeed
	cfg.Debug = *debug
	cfg.Verbose = *verbose
	cfg.DebugImprint = *debugImprint
	cfg.Ignore = ignoreRects

	cfg.Params = motion.Params{
		XSmooth:           *xSmooth,
		YSmooth:           *ySmooth,
		ScaleSmooth:       *scaleSmooth,
		AlphaSmooth:       *alphaSmooth,
		BlockSize:         *blockSize,
		MaxShift:          *maxShift,
		MaxAlpha:          *maxAlpha,
		MaxScale:          *maxScale,
		SceneCutThreshold: *sceneCut,
	}
	if err := cfg.Params.Validate(); err != nil {
		return "", "", Config{}, &pipelineerr.ConfigError{Msg: err.Error()}
	}
	if cfg.Prezoom < 1 {
		return "", "", Config{}, &pipelineerr.ConfigError{Msg: "--prezoom must be >= 1"}
	}
	if cfg.ZoomSpeed < 1 {
		return "", "", Config{}, &pipelineerr.ConfigError{Msg: "--zoom_speed must be >= 1"}
	}

	return fs.Arg(0), fs.Arg(1), cfg, nil
}
