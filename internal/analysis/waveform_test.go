package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWaveform(t *testing.T) {
	ch := []float64{0, 1, -1, 0.5, -0.5, 0.25, 0, 0}
	w, err := ComputeWaveform(ch, 4, 4)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5, 1, 1.5}, w.Times)
	assert.Equal(t, []float64{0, -1, -0.5, 0}, w.Min)
	assert.Equal(t, []float64{1, 0.5, 0.25, 0}, w.Max)
}

func TestComputeWaveformMorePointsThanSamples(t *testing.T) {
	w, err := ComputeWaveform([]float64{0.1, -0.2, 0.3}, 44100, 512)
	require.NoError(t, err)
	assert.Len(t, w.Min, 3)
	assert.Equal(t, w.Min, w.Max)
}

func TestComputeWaveformErrors(t *testing.T) {
	_, err := ComputeWaveform(nil, 44100, 10)
	assert.ErrorIs(t, err, ErrEmptySignal)

	_, err = ComputeWaveform([]float64{1}, 44100, 0)
	assert.Error(t, err)
}
