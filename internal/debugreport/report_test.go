package debugreport

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/motion"
)

func TestAppendRecordsOneEntryPerFrame(t *testing.T) {
	var r Report
	r.Append(0, motion.Identity(), motion.Identity(), 1.0, false)
	r.Append(1, motion.Motion{Scale: 1, Shift: motion.Vec2{X: 2}}, motion.Identity(), 1.1, true)

	require.Len(t, r.Entries, 2)
	assert.Equal(t, 0, r.Entries[0].Frame)
	assert.Equal(t, 2.0, r.Entries[1].RawShiftX)
	assert.True(t, r.Entries[1].SceneCut)
}

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	var r Report
	r.Append(0, motion.Motion{Scale: 1.02, Alpha: 0.01, Confidence: 0.9}, motion.Identity(), 1.05, false)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, r.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.InDelta(t, 1.02, got.Entries[0].RawScale, 1e-9)
	assert.InDelta(t, 1.05, got.Entries[0].Zoom, 1e-9)
}

func TestReadFileMissingPathErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
