package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/stabilize/internal/pipelineerr"
)

func TestParseBitrate(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"4000", 4000},
		{"4k", 4},
		{"4M", 4000},
		{"1G", 1000000},
		{"2.5M", 2500},
	}
	for _, tc := range cases {
		got, err := ParseBitrate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseBitrateRejectsGarbage(t *testing.T) {
	_, err := ParseBitrate("not-a-number")
	var cfgErr *pipelineerr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseBitrateRejectsNegative(t *testing.T) {
	_, err := ParseBitrate("-4M")
	var cfgErr *pipelineerr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseIgnoreRect(t *testing.T) {
	r, err := ParseIgnoreRect(" 10, 20, 30, 40 ")
	require.NoError(t, err)
	assert.Equal(t, 10, r.X)
	assert.Equal(t, 20, r.Y)
	assert.Equal(t, 30, r.W)
	assert.Equal(t, 40, r.H)
}

func TestParseIgnoreRectRejectsWrongComponentCount(t *testing.T) {
	_, err := ParseIgnoreRect("10,20,30")
	var cfgErr *pipelineerr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseIgnoreRectRejectsNegativeSize(t *testing.T) {
	_, err := ParseIgnoreRect("0,0,-5,10")
	var cfgErr *pipelineerr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateCodec(t *testing.T) {
	assert.NoError(t, ValidateCodec("libx264"))
	assert.Error(t, ValidateCodec("some-made-up-codec"))
}
