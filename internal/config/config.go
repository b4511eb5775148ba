// Package config holds the CLI-facing configuration for the stabilizer,
// parsed with the standard library flag package, plus the hand-written
// bitrate and ignore-rectangle parsers the flag package has no built-in
// support for.
package config

import (
	"github.com/ivlev/stabilize/internal/motion"
)

// Config is the fully resolved, validated configuration for one run.
type Config struct {
	InputPath  string
	OutputPath string

	BitrateKbs int // 0 means copy source
	Codec      string
	Downscale  int // 0 means auto (1 + min(H,W)/1000)

	Prezoom   float64
	Autozoom  bool
	ZoomSpeed float64

	Params motion.Params
	Ignore []motion.IgnoreRect

	Debug        bool
	Verbose      bool
	DebugImprint bool
}

// Default holds the per-flag defaults not already covered by
// motion.DefaultParams.
func Default() Config {
	return Config{
		Codec:     "libx265",
		Prezoom:   1.0,
		ZoomSpeed: 1.0002,
		Params:    motion.DefaultParams(),
	}
}
