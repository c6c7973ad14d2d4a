package audio_plot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWaveformPNG(t *testing.T) {
	var buf bytes.Buffer
	env := []float64{0.1, 0.5, 0.9, 0.4, 0.2}
	err := RenderWaveformPNG(&buf, env, 2.5, []float64{0.5, 1.0, 1.5}, DefaultWaveformOptions())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderWaveformPNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderWaveformPNG(&buf, nil, 1, nil, DefaultWaveformOptions()))
	assert.Zero(t, buf.Len())
}
