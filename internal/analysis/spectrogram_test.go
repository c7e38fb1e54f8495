// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/pkg/utils"
)

func assertUnitRange(t *testing.T, values [][]float64) {
	t.Helper()
	for i, row := range values {
		for j, v := range row {
			if math.IsNaN(v) || v < 0 || v > 1 {
				t.Fatalf("value[%d][%d] = %v outside [0,1]", i, j, v)
			}
		}
	}
}

func TestComputeSpectrogramShape(t *testing.T) {
	x := utils.SineWave(44100, 44100, 440, 0.5)
	sg, err := ComputeSpectrogram(x, 44100, DefaultSpectrogramOptions())
	require.NoError(t, err)

	assert.Equal(t, 1024, sg.Hop)
	assert.Len(t, sg.Values, (44100-2048)/1024+1)
	assert.Len(t, sg.Times, len(sg.Values))
	assert.Len(t, sg.Frequencies, 1025)
	for _, row := range sg.Values {
		assert.Len(t, row, 1025)
	}
	assert.InDelta(t, 1024.0/44100, sg.Times[0], 1e-12)
	assert.InDelta(t, 22050.0, sg.Frequencies[1024], 1e-9)
	assertUnitRange(t, sg.Values)
}

func TestComputeSpectrogramSinePeak(t *testing.T) {
	x := utils.SineWave(16384, 44100, 2000, 0.9)
	sg, err := ComputeSpectrogram(x, 44100, DefaultSpectrogramOptions())
	require.NoError(t, err)

	row := sg.Values[len(sg.Values)/2]
	peak := utils.FindPeakBin(row, 1, len(row)-1)
	resolution := 44100.0 / 2048
	assert.LessOrEqual(t, math.Abs(sg.Frequencies[peak]-2000), resolution)
	assert.InDelta(t, 1.0, row[peak], 0.05)
}

func TestComputeSpectrogramSilenceIsZero(t *testing.T) {
	sg, err := ComputeSpectrogram(make([]float64, 5000), 44100, DefaultSpectrogramOptions())
	require.NoError(t, err)

	for _, row := range sg.Values {
		for _, v := range row {
			require.Equal(t, 0.0, v)
		}
	}
}

func TestComputeSpectrogramShortSignal(t *testing.T) {
	sg, err := ComputeSpectrogram(utils.SineWave(300, 8000, 1000, 1), 8000, DefaultSpectrogramOptions())
	require.NoError(t, err)

	require.Len(t, sg.Values, 1)
	assertUnitRange(t, sg.Values)
}

func TestComputeSpectrogramErrors(t *testing.T) {
	_, err := ComputeSpectrogram(nil, 44100, DefaultSpectrogramOptions())
	assert.ErrorIs(t, err, ErrEmptySignal)

	bad := []SpectrogramOptions{
		{WindowSize: 0, Overlap: 0, Window: Hann},
		{WindowSize: 256, Overlap: -1, Window: Hann},
		{WindowSize: 256, Overlap: 256, Window: Hann},
	}
	for _, opts := range bad {
		_, err := ComputeSpectrogram([]float64{1, 2, 3}, 44100, opts)
		assert.ErrorIs(t, err, ErrInvalidWindow, "%+v", opts)
	}
}

func TestComputeSpectrogramConcurrent(t *testing.T) {
	left := utils.SineWave(20000, 44100, 440, 0.5)
	right := utils.ComplexWave(20000, 44100)

	want, err := ComputeSpectrogram(left, 44100, DefaultSpectrogramOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Spectrogram, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch := left
			if i%2 == 1 {
				ch = right
			}
			results[i], _ = ComputeSpectrogram(ch, 44100, DefaultSpectrogramOptions())
		}(i)
	}
	wg.Wait()

	for i := 0; i < len(results); i += 2 {
		assert.Equal(t, want.Values, results[i].Values)
	}
}
