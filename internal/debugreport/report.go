// Package debugreport writes the --debug per-frame trajectory report as
// YAML and draws the --debug_imprint QR overlay.
package debugreport

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/stabilize/internal/motion"
)

// Entry is one frame's worth of trajectory data.
type Entry struct {
	Frame     int     `yaml:"frame"`
	RawShiftX float64 `yaml:"raw_shift_x"`
	RawShiftY float64 `yaml:"raw_shift_y"`
	RawScale  float64 `yaml:"raw_scale"`
	RawAlpha  float64 `yaml:"raw_alpha"`
	Confidence float64 `yaml:"confidence"`

	CorrShiftX float64 `yaml:"corr_shift_x"`
	CorrShiftY float64 `yaml:"corr_shift_y"`
	CorrScale  float64 `yaml:"corr_scale"`
	CorrAlpha  float64 `yaml:"corr_alpha"`

	Zoom     float64 `yaml:"zoom"`
	SceneCut bool    `yaml:"scene_cut"`
}

// Report accumulates Entries across a run and writes them as a single
// YAML document.
type Report struct {
	Entries []Entry `yaml:"entries"`
}

// Append records one frame's raw motion, correction, and planned zoom.
func (r *Report) Append(frameIdx int, raw, corr motion.Motion, zoom float64, sceneCut bool) {
	r.Entries = append(r.Entries, Entry{
		Frame:      frameIdx,
		RawShiftX:  raw.Shift.X,
		RawShiftY:  raw.Shift.Y,
		RawScale:   raw.Scale,
		RawAlpha:   raw.Alpha,
		Confidence: raw.Confidence,
		CorrShiftX: corr.Shift.X,
		CorrShiftY: corr.Shift.Y,
		CorrScale:  corr.Scale,
		CorrAlpha:  corr.Alpha,
		Zoom:       zoom,
		SceneCut:   sceneCut,
	})
}

// WriteFile marshals the report to YAML and writes it to path.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a previously written report back; mainly useful for tests
// and tooling that inspects a run.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
