// Package pipelineerr defines the two early-failure error kinds:
// configuration errors (reported before the pipeline is constructed) and
// unsupported-input errors (a decoded frame or stream the pipeline cannot
// make sense of). Kept dependency-free so both the config layer and the
// frame/container layers can return them without an import cycle.
package pipelineerr

// ConfigError reports a bad flag value, malformed ignore rectangle, or an
// invariant violation in Params (e.g. maxShift > blockSize/2) discovered
// before any frame is processed.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// UnsupportedInputError reports a pixel format with no recognized
// luminance plane, a zero-size frame, or a container with no video stream.
type UnsupportedInputError struct {
	Msg string
}

func (e *UnsupportedInputError) Error() string { return e.Msg }
